// Package cmd provides CLI commands for the quantum tool.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quantum-ai/quantum-cli/credentials"
)

// Auth command flags.
var (
	authEmail          string
	authPassword       string
	authName           string
	authRole           string
	authNonInteractive bool
)

// AuthCmd represents the auth command group.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long: `Manage authentication for the meeting intelligence API.

The auth commands let you log in, sign up, check status, and log out.
The bearer token from login is stored encrypted in ~/.quantum/credentials.yaml.

The QUANTUM_TOKEN environment variable takes precedence over the stored token.`,
}

// loginCmd authenticates against the API and stores the session.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the meeting intelligence API",
	Long: `Log in with your email and password and store the session token.

Examples:
  # Interactive login (prompts for password)
  quantum auth login --email you@example.com

  # Fully interactive
  quantum auth login

  # Non-interactive (password from flag, for scripts)
  quantum auth login --email you@example.com --password secret --non-interactive

Notes:
  - The token is stored encrypted at rest
  - Set QUANTUM_TOKEN to bypass the stored session entirely`,
	RunE: runLogin,
}

// signupCmd registers a new account and stores the session.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	Long: `Register a new account with the meeting intelligence API.

On success the returned session token is stored, so a separate login
is not needed.

Examples:
  quantum auth signup --name "Ada Lovelace" --email ada@example.com
  quantum auth signup --email ada@example.com --role manager`,
	RunE: runSignup,
}

// logoutCmd clears the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Long: `Clear the stored session token.

The QUANTUM_TOKEN environment variable is not affected.

Examples:
  quantum auth logout`,
	RunE: runLogout,
}

// authStatusCmd shows the stored session status.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current authentication status",
	Long: `Display the current authentication status.

Shows:
  - Whether a session is stored and where it came from
  - The authenticated user's name, email, and role
  - The masked token and its expiry, decoded from the JWT claims

Examples:
  quantum auth status`,
	RunE: runAuthStatus,
}

func init() {
	loginCmd.Flags().StringVar(&authEmail, "email", "", "Account email address")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Account password (prompted if omitted)")
	loginCmd.Flags().BoolVar(&authNonInteractive, "non-interactive", false, "Fail instead of prompting for input")

	signupCmd.Flags().StringVar(&authName, "name", "", "Display name for the new account")
	signupCmd.Flags().StringVar(&authEmail, "email", "", "Account email address")
	signupCmd.Flags().StringVar(&authPassword, "password", "", "Account password (prompted if omitted)")
	signupCmd.Flags().StringVar(&authRole, "role", "member", "Account role")
	signupCmd.Flags().BoolVar(&authNonInteractive, "non-interactive", false, "Fail instead of prompting for input")

	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(signupCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(authStatusCmd)
}

// runLogin executes the auth login command.
func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	email, password, err := gatherLoginInput()
	if err != nil {
		return err
	}

	apiClient, store, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	resp, err := apiClient.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Login already persisted the raw token through the session store;
	// Save enriches the record with the user identity and expiry.
	if err := store.Save(&credentials.Credentials{
		Token:     resp.AccessToken,
		BaseURL:   apiClient.BaseURL(),
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		Role:      resp.User.Role,
		ExpiresAt: tokenExpiry(resp.AccessToken),
	}); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", resp.User.Name, resp.User.Email)
	return nil
}

// runSignup executes the auth signup command.
func runSignup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name := authName
	if name == "" && !authNonInteractive {
		name, err = promptLine("Name: ")
		if err != nil {
			return err
		}
	}
	if name == "" {
		return fmt.Errorf("a display name is required")
	}

	email, password, err := gatherLoginInput()
	if err != nil {
		return err
	}

	apiClient, store, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	resp, err := apiClient.Signup(ctx, name, email, password, authRole)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	if err := store.Save(&credentials.Credentials{
		Token:     resp.AccessToken,
		BaseURL:   apiClient.BaseURL(),
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		Role:      resp.User.Role,
		ExpiresAt: tokenExpiry(resp.AccessToken),
	}); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	fmt.Printf("Account created. Logged in as %s (%s)\n", resp.User.Name, resp.User.Email)
	return nil
}

// runLogout executes the auth logout command.
func runLogout(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	if !store.Exists() {
		fmt.Println("No stored session.")
		return nil
	}

	if err := store.Delete(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	fmt.Println("Logged out.")
	if os.Getenv(credentials.EnvToken) != "" {
		fmt.Println("Note: QUANTUM_TOKEN is set and still takes effect.")
	}
	return nil
}

// runAuthStatus executes the auth status command.
func runAuthStatus(cmd *cobra.Command, args []string) error {
	if envToken := os.Getenv(credentials.EnvToken); envToken != "" {
		fmt.Println("Authentication: environment (QUANTUM_TOKEN)")
		fmt.Printf("  Token:   %s\n", credentials.MaskToken(envToken))
		if exp := tokenExpiry(envToken); !exp.IsZero() {
			fmt.Printf("  Expires: %s\n", credentials.FormatExpiry(exp))
		}
		return nil
	}

	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	creds, err := store.Load()
	if err != nil {
		fmt.Println("Authentication: not logged in")
		fmt.Println("  Run 'quantum auth login' to authenticate.")
		return nil
	}

	fmt.Println("Authentication: stored session")
	if creds.Name != "" {
		fmt.Printf("  User:    %s (%s)\n", creds.Name, creds.Email)
	}
	if creds.Role != "" {
		fmt.Printf("  Role:    %s\n", creds.Role)
	}
	if creds.BaseURL != "" {
		fmt.Printf("  API:     %s\n", creds.BaseURL)
	}
	fmt.Printf("  Token:   %s\n", credentials.MaskToken(creds.Token))

	expiry := creds.ExpiresAt
	if expiry.IsZero() {
		expiry = tokenExpiry(creds.Token)
	}
	if !expiry.IsZero() {
		fmt.Printf("  Expires: %s\n", credentials.FormatExpiry(expiry))
	}
	return nil
}

// gatherLoginInput resolves the email and password from flags or prompts.
func gatherLoginInput() (email, password string, err error) {
	email = authEmail
	if email == "" {
		if authNonInteractive {
			return "", "", fmt.Errorf("--email is required in non-interactive mode")
		}
		email, err = promptLine("Email: ")
		if err != nil {
			return "", "", err
		}
	}
	if err := validateEmail(email); err != nil {
		return "", "", err
	}

	password = authPassword
	if password == "" {
		if authNonInteractive {
			return "", "", fmt.Errorf("--password is required in non-interactive mode")
		}
		password, err = promptPassword("Password: ")
		if err != nil {
			return "", "", err
		}
	}
	if password == "" {
		return "", "", fmt.Errorf("a password is required")
	}
	return email, password, nil
}

// promptLine reads a single line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it. Falls back to a
// plain read when stdin is not a terminal (pipes, CI).
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// tokenExpiry decodes the exp claim from a JWT without verifying the
// signature. Returns the zero time when the token is opaque.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
