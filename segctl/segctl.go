package main

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"
)

// segctl get | segctl set <digit>
//
// SEGD_ADDR is the stream address of segd, localhost:7070 if unset.
func main() {
	addr, ok := os.LookupEnv("SEGD_ADDR")
	if !ok {
		addr = "localhost:7070"
	}
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s get | set <digit>", os.Args[0])
	}

	var cmd string
	switch os.Args[1] {
	case "get":
		cmd = "read 1"
	case "set":
		if len(os.Args) != 3 {
			log.Fatalf("usage: %s set <digit>", os.Args[0])
		}
		cmd = "write " + os.Args[2]
	default:
		log.Fatalf("unknown command %s", os.Args[1])
	}

	reply, err := run(addr, cmd)
	if err != nil {
		log.Fatal(err.Error())
	}
	if strings.HasPrefix(reply, "ERR ") {
		log.Fatal(strings.TrimPrefix(reply, "ERR "))
	}
	fmt.Println(reply)
}

func run(addr, cmd string) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)
	if _, err := fmt.Fprintf(conn, "%s\nclose\n", cmd); err != nil {
		return "", err
	}
	reply, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(reply, "\r\n"), nil
}
