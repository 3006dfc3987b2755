// Command musemind is a terminal client for a MuseMind server: account
// management, credit operations, and prompt-driven generation without a
// browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/musemind/musemind-server/pkg/client"
)

const defaultServer = "http://localhost:8080"

func main() {
	server := flag.String("server", envOr("MUSEMIND_SERVER", defaultServer), "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(*server, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: musemind [-server URL] <command> [args]

commands:
  signup <username> <email>     create an account (prompts for a password)
  login <email>                 log in (prompts for a password)
  logout                        log out and wipe the local profile
  whoami                        show the locally cached profile
  generate <prompt> <seconds>   generate a track and print its URLs
  lyrics <prompt> [genre]       generate lyrics and print them
  tracks                        list saved tracks
  saved-lyrics                  list saved lyrics
  prompts                       list recent prompts
  buy <pack>                    buy a credit pack (starter, standard, studio)
`)
}

func run(server, command string, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	api, err := client.New(server)
	if err != nil {
		return err
	}
	sess := client.NewSession(api, client.NewSecureStore(profilePath(), storePassphrase()))

	switch command {
	case "signup":
		if len(args) != 2 {
			return fmt.Errorf("usage: signup <username> <email>")
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		u, err := sess.Signup(ctx, args[0], args[1], password)
		if err != nil {
			return err
		}
		fmt.Printf("welcome %s - %d credits to start\n", u.Username, u.Credits)
		return nil

	case "login":
		if len(args) != 1 {
			return fmt.Errorf("usage: login <email>")
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		u, err := sess.Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s - %d credits\n", u.Username, u.Credits)
		return nil

	case "logout":
		return sess.Logout(ctx)

	case "whoami":
		u, err := sess.Resume()
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> - %d credits\n", u.Username, u.Email, u.Credits)
		return nil

	case "generate":
		if len(args) != 2 {
			return fmt.Errorf("usage: generate <prompt> <seconds>")
		}
		var seconds int
		if _, err := fmt.Sscanf(args[1], "%d", &seconds); err != nil {
			return fmt.Errorf("invalid duration %q", args[1])
		}
		result, err := api.GenerateTrack(ctx, args[0], seconds, nil)
		if err != nil {
			return err
		}
		fmt.Printf("stream:   %s\ndownload: %s\ncredits:  %d\n", result.URL, result.DownloadURL, result.Credits)
		return nil

	case "lyrics":
		if len(args) < 1 {
			return fmt.Errorf("usage: lyrics <prompt> [genre]")
		}
		genre := ""
		if len(args) > 1 {
			genre = args[1]
		}
		result, err := api.GenerateLyrics(ctx, args[0], genre)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\ncredits: %d\n", result.Text, result.Credits)
		return nil

	case "tracks":
		tracks, err := api.ListTracks(ctx)
		if err != nil {
			return err
		}
		for _, t := range tracks {
			fmt.Printf("%s  %6.1fs  %s\n", t.ID, t.Duration, t.Title)
		}
		return nil

	case "saved-lyrics":
		lyrics, err := api.ListLyrics(ctx)
		if err != nil {
			return err
		}
		for _, l := range lyrics {
			fmt.Printf("%s  %s  %s\n", l.ID, l.DateCreated, l.Title)
		}
		return nil

	case "prompts":
		prompts, err := api.RecentPrompts(ctx)
		if err != nil {
			return err
		}
		for _, p := range prompts {
			fmt.Println(p)
		}
		return nil

	case "buy":
		if len(args) != 1 {
			return fmt.Errorf("usage: buy <pack>")
		}
		credits, err := api.PurchaseCredits(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("balance: %d credits\n", credits)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func profilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".musemind", "profile.bin")
}

// storePassphrase keys the local profile store. Overridable for shared
// machines; the default only shields the file from casual reads.
func storePassphrase() string {
	return envOr("MUSEMIND_STORE_KEY", "musemind-local-profile")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
