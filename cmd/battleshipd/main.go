// Command battleshipd runs the authoritative battleship server: the
// lobby, the per-match turn engine, and the multicast announcer that
// lets battleship clients find it on the local network.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/amalg/go-battleships/internal/discovery"
	"github.com/amalg/go-battleships/internal/game"
	"github.com/amalg/go-battleships/internal/server"
)

const version = "1.0.0"

func main() {
	bind := flag.String("bind", "0.0.0.0:5000", "Address to listen on")
	name := flag.String("name", "Battleship Server", "Name announced to discovery browsers")
	logFile := flag.String("log", "", "Log file path (default: discard server logs)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	srv := server.New(*bind, game.RealClock{}, game.RealRNG{})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	port, err := bindPort(*bind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine announce port: %v\n", err)
		os.Exit(1)
	}

	announcer := discovery.NewAnnouncer(port, *name)
	if err := announcer.Start(); err != nil {
		log.Printf("[SERVER] discovery announcer unavailable: %v", err)
	}
	defer announcer.Stop()

	fmt.Printf("Battleship server listening on %s\n", *bind)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("shutting down...")
		srv.Shutdown()
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}
}

// bindPort extracts the numeric port from a bind address so it can be
// announced verbatim to discovery browsers.
func bindPort(bind string) (int, error) {
	idx := strings.LastIndex(bind, ":")
	if idx < 0 {
		return 0, fmt.Errorf("no port in %q", bind)
	}
	return strconv.Atoi(bind[idx+1:])
}
