package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"TopicChat/internal/gateway"
	"TopicChat/internal/model"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate against the backend and persist the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd, args, false)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account and sign in",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd, args, true)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		current.store.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, ok := current.store.User()
		if !ok || !current.store.IsLoggedIn() {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s (%s)\n", user.Username, user.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func authenticate(cmd *cobra.Command, args []string, register bool) error {
	if current.store.IsLoggedIn() {
		user, _ := current.store.User()
		fmt.Printf("Already logged in as %s. Run 'topicchat logout' first.\n", user.Username)
		return nil
	}

	var username string
	if len(args) == 1 {
		username = args[0]
	} else {
		var err error
		username, err = promptLine("Username")
		if err != nil {
			return err
		}
	}

	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password must both be provided")
	}

	var resp *gateway.LoginResponse
	if register {
		resp, err = current.client.Register(cmd.Context(), username, password)
	} else {
		resp, err = current.client.Login(cmd.Context(), username, password)
	}
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	user := model.User{ID: resp.UserID, Username: username, Role: resp.Role}
	token := model.AuthToken{Token: resp.AccessToken, Expiry: resp.Expiry}
	current.store.Login(user, token)

	fmt.Printf("Logged in as %s (%s).\n", username, resp.Role)
	if resp.Role == model.RoleAdmin {
		fmt.Println("Run 'topicchat admin' to manage users, topics and chats.")
	} else {
		fmt.Println("Run 'topicchat chat' to start chatting.")
	}
	return nil
}

func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo, falling back to plain input when stdin
// is not a terminal
func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)

	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Println()
	return strings.TrimSpace(string(passwordBytes)), nil
}
