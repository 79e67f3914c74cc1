package ftp

import (
	"fmt"
	"net"
	"net/textproto"
	"slices"
	"testing"

	"github.com/gonzalop/netclients/ftp/listing"
)

// treeMockServer serves scripted per-directory LIST output and accepts
// DELE and RMD unconditionally, recording them in order.
func treeMockServer(t *testing.T, listings map[string]string) (*mockServer, *[]string) {
	t.Helper()
	ms := newMockServer(t)

	epsvL, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ms.dataListener = epsvL

	_, portStr, _ := net.SplitHostPort(epsvL.Addr().String())
	ms.handlers["EPSV"] = func(c *textproto.Conn, args string) {
		_ = c.PrintfLine("229 Entering Extended Passive Mode (|||%s|)", portStr)
	}
	ms.handlers["LIST"] = func(c *textproto.Conn, args string) {
		data, ok := listings[args]
		if !ok {
			_ = c.PrintfLine("550 No such directory.")
			return
		}
		_ = c.PrintfLine("150 Opening data connection.")
		dconn, err := ms.dataListener.Accept()
		if err != nil {
			t.Errorf("Mock server failed to accept data conn: %v", err)
			return
		}
		_, _ = fmt.Fprint(dconn, data)
		dconn.Close()
		_ = c.PrintfLine("226 Closing data connection.")
	}

	ops := &[]string{}
	record := func(cmd string) func(*textproto.Conn, string) {
		return func(c *textproto.Conn, args string) {
			*ops = append(*ops, cmd+" "+args)
			_ = c.PrintfLine("250 Requested file action okay, completed.")
		}
	}
	ms.handlers["DELE"] = record("DELE")
	ms.handlers["RMD"] = record("RMD")
	return ms, ops
}

func TestRemoveDirRecursive(t *testing.T) {
	t.Parallel()
	ms, ops := treeMockServer(t, map[string]string{
		"test_dir": "-rw-r--r--   1 user group   8 Mar  2 15:13 file1.txt\r\n" +
			"drwxr-xr-x   2 user group 4096 Mar  2 15:13 subdir1\r\n",
		"test_dir/subdir1": "-rw-r--r--   1 user group   8 Mar  2 15:13 file2.txt\r\n",
	})
	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	if err := c.RemoveDirRecursive("test_dir"); err != nil {
		t.Fatalf("RemoveDirRecursive failed: %v", err)
	}

	want := []string{
		"DELE test_dir/file1.txt",
		"DELE test_dir/subdir1/file2.txt",
		"RMD test_dir/subdir1",
		"RMD test_dir",
	}
	if !slices.Equal(*ops, want) {
		t.Errorf("operations = %v, want %v", *ops, want)
	}
}

func TestRemoveDirRecursive_EmptyDir(t *testing.T) {
	t.Parallel()
	ms, ops := treeMockServer(t, map[string]string{
		"empty_dir": "",
	})
	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	if err := c.RemoveDirRecursive("empty_dir"); err != nil {
		t.Fatalf("RemoveDirRecursive on empty dir failed: %v", err)
	}

	want := []string{"RMD empty_dir"}
	if !slices.Equal(*ops, want) {
		t.Errorf("operations = %v, want %v", *ops, want)
	}
}

func TestRemoveDirRecursive_NonExistent(t *testing.T) {
	t.Parallel()
	ms, _ := treeMockServer(t, map[string]string{})
	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	if err := c.RemoveDirRecursive("nonexistent_dir"); err == nil {
		t.Error("RemoveDirRecursive should fail on non-existent directory")
	}
}

func TestWalk(t *testing.T) {
	t.Parallel()
	ms, _ := treeMockServer(t, map[string]string{
		".": "drwxr-xr-x   2 user group 4096 Mar  2 15:13 pub\r\n" +
			"-rw-r--r--   1 user group  100 Mar  2 15:13 readme.txt\r\n",
		"pub": "-rw-r--r--   1 user group  200 Mar  2 15:13 a.txt\r\n",
	})
	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	var visited []string
	err := c.Walk(".", func(p string, info *listing.Entry, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, p)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{".", "pub", "pub/a.txt", "readme.txt"}
	if !slices.Equal(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestWalk_SkipDir(t *testing.T) {
	t.Parallel()
	ms, _ := treeMockServer(t, map[string]string{
		".": "drwxr-xr-x   2 user group 4096 Mar  2 15:13 pub\r\n" +
			"-rw-r--r--   1 user group  100 Mar  2 15:13 readme.txt\r\n",
		"pub": "-rw-r--r--   1 user group  200 Mar  2 15:13 a.txt\r\n",
	})
	ms.start()
	defer ms.stop()

	c := dialMock(t, ms)

	var visited []string
	err := c.Walk(".", func(p string, info *listing.Entry, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, p)
		if p == "pub" {
			return SkipDir
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{".", "pub", "readme.txt"}
	if !slices.Equal(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}
