package scan

// knownPorts maps well-known TCP ports to service names. This checked-in
// table is a trimmed set of common ports, some under informal names that
// are not IANA service names. tools/update-ports.go does not produce it:
// running that tool replaces this file with every TCP entry of
// https://www.iana.org/assignments/service-names-port-numbers/service-names-port-numbers.csv
var knownPorts = map[int]string{
	7:     "echo",
	20:    "ftp-data",
	21:    "ftp",
	22:    "ssh",
	23:    "telnet",
	25:    "smtp",
	37:    "time",
	42:    "nameserver",
	43:    "whois",
	53:    "domain",
	67:    "dhcps",
	68:    "dhcpc",
	69:    "tftp",
	79:    "finger",
	80:    "http",
	88:    "kerberos",
	102:   "iso-tsap",
	110:   "pop3",
	111:   "rpcbind",
	113:   "ident",
	119:   "nntp",
	123:   "ntp",
	135:   "msrpc",
	137:   "netbios-ns",
	138:   "netbios-dgm",
	139:   "netbios-ssn",
	143:   "imap",
	161:   "snmp",
	162:   "snmptrap",
	179:   "bgp",
	194:   "irc",
	389:   "ldap",
	427:   "svrloc",
	443:   "https",
	444:   "snpp",
	445:   "microsoft-ds",
	464:   "kpasswd",
	465:   "smtps",
	497:   "retrospect",
	500:   "isakmp",
	512:   "exec",
	513:   "login",
	514:   "shell",
	515:   "printer",
	520:   "route",
	521:   "ripng",
	540:   "uucp",
	548:   "afpovertcp",
	554:   "rtsp",
	587:   "submission",
	623:   "asf-rmcp",
	631:   "ipp",
	636:   "ldaps",
	646:   "ldp",
	647:   "dhcp-failover",
	666:   "doom",
	771:   "rtip",
	783:   "spamassassin",
	853:   "domain-s",
	873:   "rsync",
	902:   "vmware-auth",
	989:   "ftps-data",
	990:   "ftps",
	993:   "imaps",
	995:   "pop3s",
	1025:  "NFS-or-IIS",
	1080:  "socks",
	1194:  "openvpn",
	1214:  "fasttrack",
	1234:  "hotline",
	1241:  "nessus",
	1311:  "rxmon",
	1337:  "waste",
	1433:  "ms-sql-s",
	1434:  "ms-sql-m",
	1512:  "wins",
	1521:  "oracle",
	1589:  "cisco-vqp",
	1701:  "l2tp",
	1723:  "pptp",
	1725:  "steam",
	1741:  "cisco-net-mgmt",
	1755:  "wms",
	1812:  "radius",
	1813:  "radius-acct",
	1863:  "msnp",
	1883:  "mqtt",
	1900:  "ssdp",
	1935:  "rtmp",
	2000:  "cisco-sccp",
	2049:  "nfs",
	2082:  "cpanel",
	2083:  "cpanel-ssl",
	2086:  "whm",
	2087:  "whm-ssl",
	2095:  "webmail",
	2096:  "webmail-ssl",
	2121:  "ccproxy-ftp",
	2181:  "zookeeper",
	2375:  "docker",
	2376:  "docker-s",
	2483:  "oracle-db",
	2484:  "oracle-db-ssl",
	2601:  "zebra-ripd",
	2604:  "zebra-ospfd",
	3000:  "nodejs-dev",
	3128:  "squid-http",
	3260:  "iscsi",
	3268:  "ldap-gc",
	3269:  "ldap-gc-ssl",
	3283:  "netassistant",
	3306:  "mysql",
	3389:  "ms-wbt-server",
	3478:  "stun",
	3690:  "svn",
	3724:  "battle-net",
	3784:  "bfd-control",
	4000:  "icq",
	4070:  "spotify",
	4369:  "epmd",
	4500:  "ipsec-nat-t",
	4567:  "tram",
	4662:  "edonkey",
	4664:  "rfa",
	4672:  "rfa",
	4899:  "radmin",
	5000:  "upnp",
	5001:  "commplex-link",
	5050:  "mmcc",
	5060:  "sip",
	5061:  "sips",
	5190:  "aol",
	5222:  "xmpp-client",
	5269:  "xmpp-server",
	5351:  "nat-pmp",
	5353:  "mdns",
	5355:  "llmnr",
	5432:  "postgresql",
	5555:  "freeciv",
	5601:  "kibana",
	5631:  "pcanywheredata",
	5632:  "pcanywherestat",
	5672:  "amqp",
	5683:  "coap",
	5800:  "vnc-http",
	5900:  "vnc",
	5938:  "teamviewer",
	5984:  "couchdb",
	6000:  "x11",
	6379:  "redis",
	6443:  "kubernetes-api",
	6446:  "mysql-proxy",
	6514:  "syslog-tls",
	6666:  "irc-alt",
	6667:  "irc",
	6881:  "bittorrent",
	6969:  "bittorrent-tracker",
	7000:  "afs3-fileserver",
	7001:  "afs3-callback",
	7070:  "realserver",
	7077:  "ssdaemon",
	7099:  "lazy-ptop",
	7200:  "fodms",
	7400:  "rtps-discovery",
	7474:  "neo4j",
	7547:  "cwmp",
	7777:  "cbt",
	8000:  "http-alt",
	8008:  "http-alt",
	8009:  "ajp13",
	8080:  "http-proxy",
	8081:  "http-alt",
	8086:  "influxdb",
	8087:  "simplifymedia",
	8089:  "splunkd",
	8090:  "opsview-envoy",
	8091:  "couchbase",
	8096:  "plex",
	8140:  "puppet",
	8181:  "intermapper",
	8222:  "vmware-fdm",
	8333:  "bitcoin",
	8443:  "https-alt",
	8500:  "consul",
	8529:  "arangodb",
	8530:  "arangodb-alt",
	8888:  "sun-answerbook",
	8983:  "solr",
	9000:  "cslistener",
	9001:  "tor-orport",
	9042:  "cassandra",
	9090:  "websm",
	9092:  "kafka",
	9100:  "jetdirect",
	9200:  "elasticsearch",
	9300:  "elasticsearch-cluster",
	9418:  "git",
	9999:  "abyss",
	10000: "webmin",
	10050: "zabbix-agent",
	10051: "zabbix-trapper",
	10250: "kubelet",
	11211: "memcached",
	11371: "pgpkeyserver",
	12345: "netbus",
	13720: "bprd",
	14000: "scotty-ft",
	15672: "rabbitmq-mgmt",
	16080: "mcs",
	16993: "wap-push-https",
	17500: "db-lsp",
	18080: "gnutella",
	19132: "minecraft-bedrock",
	20000: "dnp",
	21025: "ttyinfo",
	24800: "synergy",
	25565: "minecraft",
	27015: "srcds",
	27017: "mongodb",
	27018: "mongodb-shard",
	28015: "minecraft-bedrock-alt",
	28017: "mongodb-http",
	32400: "plex-alt",
	32764: "unauthenticated-backdoor",
	33434: "traceroute",
	37777: "dvr-com",
	49152: "upnp-alt",
	50000: "sap",
	50070: "hadoop-namenode",
	54321: "bo2k",
}
