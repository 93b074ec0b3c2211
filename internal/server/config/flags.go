package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/racelog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-b string   store backend ("file" or "memory")
//	-d string   data directory
//	-s string   seed (default dataset) directory
//	-w string   static front-end directory
//	-i string   track image directory
//	-t int      session lifetime, hours
//
// Args are pre-filtered with flagx.FilterArgs so flags owned by other
// components (like -c/-config) pass through untouched.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-d", "-s", "-w", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend (file or memory)")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.SeedDir, "s", config.SeedDir, "seed directory")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static assets directory")
	fs.StringVar(&config.ImageDir, "i", config.ImageDir, "track image directory")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session lifetime (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
}
