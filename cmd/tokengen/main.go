// Command tokengen mints an access token for one history owner, or prints a
// fresh random secret for the server's -s flag.
//
//	tokengen -o alice -s secretKey -t 720
//	tokengen -new-secret
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/server/auth"
	"github.com/dmitrijs2005/kodex/internal/server/config"
)

const secretBytes = 32

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("tokengen", flag.ExitOnError)
	owner := fs.String("o", "", "owner id (required)")
	secret := fs.String("s", cfg.SecretKey, "secret key, must match the server")
	hours := fs.Int("t", int(cfg.TokenValidityDuration.Hours()), "token validity (in hours)")
	newSecret := fs.Bool("new-secret", false, "print a random secret key and exit")
	_ = fs.Parse(os.Args[1:])

	if *newSecret {
		s, err := common.MakeRandHexString(secretBytes)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println(s)
		return
	}

	if *owner == "" || *hours <= 0 {
		fs.Usage()
		os.Exit(2)
	}

	tok, err := auth.GenerateToken(*owner, []byte(*secret), time.Duration(*hours)*time.Hour)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(tok)
}
