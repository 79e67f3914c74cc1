// Package nntp implements a client for the Network News Transfer Protocol
// as described in RFC 3977.
//
// # Basic Usage
//
// Connect to a news server and select a group:
//
//	client, err := nntp.Dial("news.example.com:119")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Quit()
//
//	group, err := client.Group("comp.lang.go")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d articles\n", group.Name, group.Count)
//
// Articles can be addressed by number within the selected group or by
// message-id:
//
//	article, err := client.Article("<msgid@example.com>")
//
// # Error Handling
//
// Server rejections are reported as *ProtocolError with the NNTP response
// code, in the same shape as the ftp package's errors:
//
//	if _, err := client.Group("no.such.group"); err != nil {
//	    if pe, ok := err.(*ProtocolError); ok && pe.Code == 411 {
//	        fmt.Println("group does not exist")
//	    }
//	}
package nntp
