package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/aryanA101a/lulu/terminal"
	"github.com/aryanA101a/lulu/vm"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image-file1 ...\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var startPC string
	var trace bool
	var logFile string

	flag.StringVar(&startPC, "pc", "0x3000", "Address execution starts at")
	flag.BoolVar(&trace, "trace", false, "Log every executed instruction")
	flag.StringVar(&logFile, "log", "", "Write log output to file instead of stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	pc, err := strconv.ParseUint(startPC, 0, 16)
	if err != nil {
		logrus.Fatalf("-pc %v: %v", startPC, err)
	}

	logrus.SetLevel(logrus.WarnLevel)
	if trace {
		logrus.SetLevel(logrus.DebugLevel)
	}
	var logOut *os.File
	if logFile != "" {
		logOut, err = os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			logrus.Fatalf("error opening log file: %v", err)
		}
		logrus.SetOutput(logOut)
		if !trace {
			logrus.SetLevel(logrus.InfoLevel)
		}
	}

	status := run(uint16(pc), flag.Args())
	if logOut != nil {
		logOut.Close()
	}
	os.Exit(status)
}

// run loads every image into one machine and executes it, returning the
// process exit status.
func run(pc uint16, images []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := terminal.Open(ctx, os.Stdin, os.Stdout)
	machine := vm.New(console)

	for _, path := range images {
		if _, _, err := machine.LoadImageFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load image: %v\n", err)
			return 1
		}
	}
	machine.Reset(pc)

	if err := console.EnableRawMode(); err != nil {
		logrus.WithError(err).Warn("terminal left in canonical mode")
	}
	err := machine.Run(ctx)
	if rerr := console.Restore(); rerr != nil {
		logrus.WithError(rerr).Error("restoring terminal")
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr)
		return 130
	default:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		return 1
	}
}
