package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/term"

	"github.com/vasapolrittideah/auth-api/services/login-client/internal/api"
	"github.com/vasapolrittideah/auth-api/services/login-client/internal/form"
	"github.com/vasapolrittideah/auth-api/services/login-client/internal/state"
	"github.com/vasapolrittideah/auth-api/shared/logger"
)

type clientConfig struct {
	APIURL   string `env:"API_URL"   envDefault:"http://localhost:8081"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

func main() {
	cfg, err := env.ParseAs[clientConfig]()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to parse environment variables:", err)
		os.Exit(1)
	}

	apiURL := flag.String("api-url", cfg.APIURL, "base URL of the auth service")
	register := flag.Bool("register", false, "create the account before logging in")
	name := flag.String("name", "", "user name, required with -register")
	flag.Parse()

	log := logger.New("development", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := api.NewClient(*apiURL, nil)
	f := form.New(client, state.Initial())
	in := bufio.NewReader(os.Stdin)

	fmt.Println(f.View())

	email, err := prompt(in, "email: ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read email")
	}
	password, err := readPassword(in, "password: ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read password")
	}

	if *register {
		if *name == "" {
			if *name, err = prompt(in, "name: "); err != nil {
				log.Fatal().Err(err).Msg("failed to read name")
			}
		}
		if _, err := client.Register(ctx, *name, email, password); err != nil {
			reportRegisterError(err)
			os.Exit(1)
		}
		fmt.Println("Account created")
	}

	if err := f.Submit(ctx, email, password); err != nil {
		log.Debug().Err(err).Msg("login request failed")
		fmt.Println(f.View())
		os.Exit(1)
	}
	fmt.Println(f.View())

	secret, err := client.Secret(ctx, f.State().AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch protected content")
		os.Exit(1)
	}
	fmt.Printf("%s, %s\n", secret.Message, secret.Username)
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(in *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, label)
	}

	fmt.Print(label)
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func reportRegisterError(err error) {
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		fmt.Fprintln(os.Stderr, "registration failed:", err)
		return
	}

	fmt.Fprintln(os.Stderr, statusErr.Message)
	for field, msg := range statusErr.Fields {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
	}
}
