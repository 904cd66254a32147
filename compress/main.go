package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fumin/interval"
)

var variant = flag.String("variant", "range", "coder variant, range or arithmetic")
var verbose = flag.Bool("verbose", false, "verbosity")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}
	v, err := interval.ParseVariant(*variant)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	stats, err := interval.EncodeStats(os.Stdout, data, v)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *verbose {
		log.Printf("%s %s: %d -> %d bytes, ratio %.4f, %.3f bits/byte", v, name, stats.Original, stats.Compressed, stats.Ratio(), stats.BitsPerByte())
	}
}
