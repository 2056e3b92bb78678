// Command client is an interactive terminal client for the Connect Four
// server. It dials the telnet port, colors server output by message tag,
// and forwards stdin lines as commands.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "connect4-client",
		Usage: "interactive client for the Connect Four server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "localhost:8080",
				Usage: "server address (host:port)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return run(cmd.String("addr"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	display := newDisplay()
	display.connected(addr)

	done := make(chan struct{})

	// Server output is printed as it arrives; the prompt interleaves with
	// notifications the same way a raw telnet session would.
	go func() {
		defer close(done)

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			display.serverLine(scanner.Text())
		}

		display.disconnected()
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		select {
		case <-done:
			return nil
		default:
		}

		line := stdin.Text()
		if _, err = fmt.Fprintf(conn, "%s\n", line); err != nil {
			return fmt.Errorf("failed to send command: %w", err)
		}

		command := strings.ToLower(strings.TrimSpace(line))
		if command == "quit" || command == "exit" {
			<-done
			return nil
		}
	}

	return nil
}

type display struct {
	errorColor  *color.Color
	okColor     *color.Color
	noticeColor *color.Color
	turnColor   *color.Color
	infoColor   *color.Color
}

func newDisplay() *display {
	return &display{
		errorColor:  color.New(color.FgRed, color.Bold),
		okColor:     color.New(color.FgGreen),
		noticeColor: color.New(color.FgYellow),
		turnColor:   color.New(color.FgCyan, color.Bold),
		infoColor:   color.New(color.FgWhite),
	}
}

func (that *display) connected(addr string) {
	that.okColor.Printf("Connected to %s\n", addr)
}

func (that *display) disconnected() {
	that.errorColor.Println("Connection closed by server.")
}

// serverLine colors one line of server output by its tag.
func (that *display) serverLine(line string) {
	switch {
	case strings.HasPrefix(line, "[ERROR]"):
		that.errorColor.Println(line)
	case strings.HasPrefix(line, "[OK]"), strings.HasPrefix(line, "[STATUS]"):
		that.okColor.Println(line)
	case strings.HasPrefix(line, "[NOTICE]"):
		that.noticeColor.Println(line)
	case strings.HasPrefix(line, "[TURN]"), strings.HasPrefix(line, "[REQUEST]"):
		that.turnColor.Println(line)
	default:
		that.infoColor.Println(line)
	}
}
