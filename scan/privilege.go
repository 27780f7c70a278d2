package scan

import "os"

// HasRawSocketPrivilege reports whether the current process can open raw
// sockets — the "Privilege probe" collaborator of spec §6, given a
// concrete Unix default (effective UID 0). Engine calls it directly
// whenever TechniqueSYN is requested; there is no way to hand Engine a
// different capability token.
func HasRawSocketPrivilege() bool {
	return os.Geteuid() == 0
}
