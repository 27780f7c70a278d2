package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/google/gopacket/routing"
	"github.com/mostlygeek/arp"
	"github.com/phayes/freeport"
	"github.com/sirupsen/logrus"
)

// SynScanner is the raw-SYN variant of the C3 contract. Unlike
// ConnectScanner, it needs per-destination state (a live pcap handle, a
// resolved hardware address, a session-wide ephemeral source port), so
// it caches one session per address and multiplexes concurrent probes
// to the same host through it.
type SynScanner struct {
	serializeOptions gopacket.SerializeOptions
	log              logrus.FieldLogger

	mu       sync.Mutex
	sessions map[string]*synSession
}

var _ Scanner = (*SynScanner)(nil)

func NewSynScanner(log logrus.FieldLogger) *SynScanner {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &SynScanner{
		serializeOptions: gopacket.SerializeOptions{
			FixLengths:       true,
			ComputeChecksums: true,
		},
		log:      log,
		sessions: make(map[string]*synSession),
	}
}

func (s *SynScanner) Capabilities() Capabilities {
	return Capabilities{
		RequiresPrivilege: true,
		SupportsIPv6:      false,
		// syn holds no per-probe file descriptor, so it can run at a
		// wider batch than the FD-budgeted default, per spec §4.3.3.
		PreferredBatchWidth: int(MaxBatch),
	}
}

// Close tears down every cached per-host session.
func (s *SynScanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for addr, sess := range s.sessions {
		sess.close()
		delete(s.sessions, addr)
	}

	return nil
}

// synSession holds everything needed to send/receive SYN packets for one
// destination host: a live pcap handle, the resolved link-layer
// addresses, and a dispatch table routing incoming responses to waiting
// probes by the destination port they answer.
type synSession struct {
	handle  *pcap.Handle
	eth     layers.Ethernet
	ip4     layers.IPv4
	rawPort int

	mu      sync.Mutex
	pending map[int]chan PortState
	closed  bool
}

func (s *SynScanner) sessionFor(dst net.IP) (*synSession, error) {
	key := dst.String()

	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	sess, err := newSynSession(dst, s.serializeOptions, s.log)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		sess.close()

		return existing, nil
	}

	s.sessions[key] = sess
	s.mu.Unlock()

	return sess, nil
}

func newSynSession(dst net.IP, opts gopacket.SerializeOptions, log logrus.FieldLogger) (*synSession, error) {
	router, err := routing.New()
	if err != nil {
		return nil, err
	}

	iface, gateway, srcIP, err := router.Route(dst)
	if err != nil {
		return nil, err
	}

	handle, err := pcap.OpenLive(iface.Name, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, err
	}

	hwaddr, err := resolveHardwareAddr(handle, dst, gateway, srcIP, iface, opts)
	if err != nil {
		handle.Close()
		return nil, err
	}

	rawPort, err := freeport.GetFreePort()
	if err != nil {
		handle.Close()
		return nil, err
	}

	sess := &synSession{
		handle: handle,
		eth: layers.Ethernet{
			SrcMAC:       iface.HardwareAddr,
			DstMAC:       hwaddr,
			EthernetType: layers.EthernetTypeIPv4,
		},
		ip4: layers.IPv4{
			SrcIP:    srcIP,
			DstIP:    dst,
			Version:  4,
			TTL:      255,
			Protocol: layers.IPProtocolTCP,
		},
		rawPort: rawPort,
		pending: make(map[int]chan PortState),
	}

	go sess.readLoop(log)

	return sess, nil
}

// resolveHardwareAddr mirrors the teacher's ARP flow: check the cached
// ARP table first, then send a single ARP request and wait for a reply.
func resolveHardwareAddr(handle *pcap.Handle, dst, gateway, srcIP net.IP, iface *net.Interface, opts gopacket.SerializeOptions) (net.HardwareAddr, error) {
	if macStr := arp.Search(dst.String()); macStr != "00:00:00:00:00:00" {
		if mac, err := net.ParseMAC(macStr); err == nil {
			return mac, nil
		}
	}

	arpDst := dst
	if gateway != nil {
		arpDst = gateway
	}

	eth := layers.Ethernet{
		SrcMAC:       iface.HardwareAddr,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arpReq := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   iface.HardwareAddr,
		SourceProtAddress: srcIP.To4(),
		DstHwAddress:      net.HardwareAddr{0, 0, 0, 0, 0, 0},
		DstProtAddress:    arpDst.To4(),
	}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, opts, &eth, &arpReq); err != nil {
		return nil, err
	}

	if err := handle.WritePacketData(buf.Bytes()); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(3 * time.Second)

	for time.Now().Before(deadline) {
		data, _, err := handle.ReadPacketData()
		if errors.Is(err, pcap.NextErrorTimeoutExpired) {
			continue
		} else if err != nil {
			return nil, err
		}

		packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.NoCopy)
		if arpLayer := packet.Layer(layers.LayerTypeARP); arpLayer != nil {
			reply := arpLayer.(*layers.ARP)
			if net.IP(reply.SourceProtAddress).Equal(arpDst) {
				return net.HardwareAddr(reply.SourceHwAddress), nil
			}
		}
	}

	return nil, fmt.Errorf("timeout resolving hardware address for %s", arpDst)
}

func (sess *synSession) register(port int) chan PortState {
	ch := make(chan PortState, 1)

	sess.mu.Lock()
	sess.pending[port] = ch
	sess.mu.Unlock()

	return ch
}

func (sess *synSession) unregister(port int) {
	sess.mu.Lock()
	delete(sess.pending, port)
	sess.mu.Unlock()
}

func (sess *synSession) deliver(port int, state PortState) {
	sess.mu.Lock()
	ch, ok := sess.pending[port]
	sess.mu.Unlock()

	if !ok {
		return
	}

	select {
	case ch <- state:
	default:
	}
}

func (sess *synSession) send(port int) error {
	tcp := layers.TCP{
		SrcPort: layers.TCPPort(sess.rawPort),
		DstPort: layers.TCPPort(port),
		SYN:     true,
	}
	tcp.SetNetworkLayerForChecksum(&sess.ip4)

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}, &sess.eth, &sess.ip4, &tcp); err != nil {
		return err
	}

	return sess.handle.WritePacketData(buf.Bytes())
}

// readLoop decodes every packet the session's handle sees and dispatches
// SYN/ACK and RST replies addressed to rawPort to the waiting probe.
func (sess *synSession) readLoop(log logrus.FieldLogger) {
	eth := &layers.Ethernet{}
	ip4 := &layers.IPv4{}
	tcp := &layers.TCP{}
	icmp := &layers.ICMPv4{}

	parser := gopacket.NewDecodingLayerParser(layers.LayerTypeEthernet, eth, ip4, tcp, icmp)
	decoded := []gopacket.LayerType{}

	for {
		data, _, err := sess.handle.ReadPacketData()
		if errors.Is(err, pcap.NextErrorTimeoutExpired) {
			continue
		} else if errors.Is(err, io.EOF) || errors.Is(err, pcap.ErrorNotActivated) {
			return
		} else if err != nil {
			log.Debugf("syn scanner: packet read error: %s", err)
			continue
		}

		// An error here (e.g. no decoder for the payload an ICMP error
		// carries) still leaves the layers decoded before it in decoded,
		// which is all the checks below look at.
		_ = parser.DecodeLayers(data, &decoded)

		var sawTCP, sawICMP bool

		for _, layerType := range decoded {
			switch layerType {
			case layers.LayerTypeTCP:
				sawTCP = true
			case layers.LayerTypeICMPv4:
				sawICMP = true
			}
		}

		if sawTCP && int(tcp.DstPort) == sess.rawPort {
			switch {
			case tcp.SYN && tcp.ACK:
				sess.deliver(int(tcp.SrcPort), PortOpen)
			case tcp.RST:
				sess.deliver(int(tcp.SrcPort), PortClosed)
			}
		}

		if sawICMP && isAdminProhibited(icmp) {
			// Best-effort: we can't recover the original destination
			// port from a truncated ICMP payload in every case, so this
			// only helps when the embedded header round-trips cleanly.
			if port, ok := embeddedDstPort(data, int(ip4.IHL)*4); ok {
				sess.deliver(port, PortFiltered)
			}
		}
	}
}

func isAdminProhibited(icmp *layers.ICMPv4) bool {
	typeCode := icmp.TypeCode
	if typeCode.Type() != layers.ICMPv4TypeDestinationUnreachable {
		return false
	}

	switch typeCode.Code() {
	case layers.ICMPv4CodeNetAdminProhibited,
		layers.ICMPv4CodeHostAdminProhibited,
		layers.ICMPv4CodeCommAdminProhibited:
		return true
	default:
		return false
	}
}

// embeddedDstPort pulls the original TCP destination port out of the
// ICMP error's embedded IP+TCP header, when present. outerIPHeaderLen
// is the header length of the outer (ICMP-carrying) IPv4 datagram.
func embeddedDstPort(data []byte, outerIPHeaderLen int) (int, bool) {
	const (
		ethHeaderLen  = 14
		icmpHeaderLen = 8
		tcpDstPortOff = 2
	)

	embeddedIPStart := ethHeaderLen + outerIPHeaderLen + icmpHeaderLen
	if len(data) < embeddedIPStart+1 {
		return 0, false
	}

	embeddedIHL := int(data[embeddedIPStart]&0x0f) * 4

	tcpStart := embeddedIPStart + embeddedIHL
	if len(data) < tcpStart+tcpDstPortOff+2 {
		return 0, false
	}

	off := tcpStart + tcpDstPortOff

	return int(data[off])<<8 | int(data[off+1]), true
}

func (sess *synSession) close() {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return
	}

	sess.closed = true
	sess.mu.Unlock()

	sess.handle.Close()
}

// Probe sends one SYN to (address, port) and waits for a classifying
// reply or deadline expiry.
func (s *SynScanner) Probe(ctx context.Context, address net.IP, port int, deadline time.Duration) (PortState, time.Duration) {
	start := time.Now()

	sess, err := s.sessionFor(address)
	if err != nil {
		s.log.Debugf("syn scanner: session setup failed for %s: %s", address, err)
		return PortFiltered, time.Since(start)
	}

	ch := sess.register(port)
	defer sess.unregister(port)

	if err := sess.send(port); err != nil {
		s.log.Debugf("syn scanner: send failed for %s:%d: %s", address, port, err)
		return PortFiltered, time.Since(start)
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case state := <-ch:
		return state, time.Since(start)
	case <-ctx.Done():
		return PortFiltered, time.Since(start)
	case <-timer.C:
		return PortFiltered, time.Since(start)
	}
}
