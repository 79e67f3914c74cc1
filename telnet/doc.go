// Package telnet implements a minimal Telnet client connection.
//
// The connection filters Telnet protocol bytes out of the data stream and
// answers option negotiation by refusing everything the caller did not
// explicitly accept. Writes escape 0xFF bytes and translate bare newlines
// to the CR LF sequence the wire requires.
//
// Example:
//
//	conn, err := telnet.Dial("host.example.com:23")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	fmt.Fprintf(conn, "hello\n")
package telnet
