// Command token mints an access token for calling the moderation API by hand.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etymograph/moderation/internal/auth"
	"github.com/etymograph/moderation/internal/config"
)

func main() {
	userID := flag.String("user", "", "user id (required)")
	email := flag.String("email", "", "email address")
	name := flag.String("name", "", "display name")
	admin := flag.Bool("admin", false, "grant the admin claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -user <id> [-email addr] [-admin] [-ttl 1h]")
		os.Exit(2)
	}

	cfg := config.Load()
	token, err := auth.GenerateAccessToken(auth.Identity{
		UserID: *userID,
		Email:  *email,
		Name:   *name,
		Admin:  *admin,
	}, cfg.JWTSecret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
