package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/docvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-o string   owner id used to scope remote records
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-k string   passcode verifier file path
//	-s string   unlock token HMAC secret
//	-t int      unlock token TTL, minutes
//
// os.Args is first filtered to the flags handled here, so the -c/-config
// flag consumed by the JSON layer does not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-o", "-u", "-p", "-b", "-g", "-e", "-k", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.OwnerID, "o", config.OwnerID, "owner id")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.PasscodePath, "k", config.PasscodePath, "passcode verifier file")
	fs.StringVar(&config.UnlockSecret, "s", config.UnlockSecret, "unlock token secret")

	unlockTokenTTL := fs.Int("t", int(config.UnlockTokenTTL.Minutes()), "unlock token TTL (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.UnlockTokenTTL = time.Duration(*unlockTokenTTL) * time.Minute
}
