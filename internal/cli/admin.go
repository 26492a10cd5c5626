package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"TopicChat/internal/admin"
	"TopicChat/internal/model"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the global catalog of users, topics and chats",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := userManager(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %-24s %s\n", "ID", "USERNAME", "ROLE")
		for _, u := range mgr.Users() {
			fmt.Printf("%-6d %-24s %s\n", u.ID, u.Username, u.Role)
		}
		return nil
	},
}

var adminUsersCreateCmd = &cobra.Command{
	Use:   "create <username> <role>",
	Short: "Create a user (role is ADMIN or USER)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(args[1])
		if err != nil {
			return err
		}
		mgr, err := userManager(cmd)
		if err != nil {
			return err
		}
		password, err := promptPassword("Password for " + args[0])
		if err != nil {
			return err
		}
		user, err := mgr.Create(cmd.Context(), args[0], password, role)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %d (%s, %s).\n", user.ID, user.Username, user.Role)
		return nil
	},
}

var adminUsersUpdateCmd = &cobra.Command{
	Use:   "update <id> <username> <role>",
	Short: "Update a user's fields",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id: %s", args[0])
		}
		role, err := parseRole(args[2])
		if err != nil {
			return err
		}
		mgr, err := userManager(cmd)
		if err != nil {
			return err
		}
		password, err := promptPassword("New password for " + args[1])
		if err != nil {
			return err
		}
		user, err := mgr.Update(cmd.Context(), id, args[1], password, role)
		if err != nil {
			return err
		}
		fmt.Printf("Updated user %d (%s, %s).\n", user.ID, user.Username, user.Role)
		return nil
	},
}

var adminUsersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id: %s", args[0])
		}
		mgr, err := userManager(cmd)
		if err != nil {
			return err
		}
		deleted, err := mgr.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Println("Cancelled.")
			return nil
		}
		fmt.Printf("Deleted user %d.\n", id)
		return nil
	},
}

var adminTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage topics",
}

var adminTopicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := topicManager(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %s\n", "ID", "NAME")
		for _, t := range mgr.Topics() {
			fmt.Printf("%-6d %s\n", t.ID, t.Name)
		}
		return nil
	},
}

var adminTopicsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := topicManager(cmd)
		if err != nil {
			return err
		}
		topic, err := mgr.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created topic %d (%s).\n", topic.ID, topic.Name)
		return nil
	},
}

var adminTopicsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid topic id: %s", args[0])
		}
		mgr, err := topicManager(cmd)
		if err != nil {
			return err
		}
		deleted, err := mgr.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Println("Cancelled.")
			return nil
		}
		fmt.Printf("Deleted topic %d.\n", id)
		return nil
	},
}

var adminChatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Manage chats across all users",
}

var adminChatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all chats",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := chatManager(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %-24s %s\n", "ID", "USER", "TOPIC")
		for _, c := range mgr.Chats() {
			username := "Unknown User"
			if c.User != nil {
				username = c.User.Username
			}
			fmt.Printf("%-6d %-24s %s\n", c.ID, username, c.Topic.Name)
		}
		return nil
	},
}

var adminChatsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chat id: %s", args[0])
		}
		mgr, err := chatManager(cmd)
		if err != nil {
			return err
		}
		deleted, err := mgr.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Println("Cancelled.")
			return nil
		}
		fmt.Printf("Deleted chat %d.\n", id)
		return nil
	},
}

func init() {
	adminUsersCmd.AddCommand(adminUsersListCmd, adminUsersCreateCmd, adminUsersUpdateCmd, adminUsersDeleteCmd)
	adminTopicsCmd.AddCommand(adminTopicsListCmd, adminTopicsCreateCmd, adminTopicsDeleteCmd)
	adminChatsCmd.AddCommand(adminChatsListCmd, adminChatsDeleteCmd)
	adminCmd.AddCommand(adminUsersCmd, adminTopicsCmd, adminChatsCmd)
	rootCmd.AddCommand(adminCmd)
}

// requireAdmin gates every admin command before any network call
func requireAdmin() error {
	if !current.store.IsLoggedIn() {
		return fmt.Errorf("not logged in — run 'topicchat login' first")
	}
	user, _ := current.store.User()
	if user.Role != model.RoleAdmin {
		return fmt.Errorf("admin role required")
	}
	return nil
}

func userManager(cmd *cobra.Command) (*admin.UserManager, error) {
	if err := requireAdmin(); err != nil {
		return nil, err
	}
	mgr := admin.NewUserManager(current.client, confirm, current.logger)
	if err := mgr.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return mgr, nil
}

func topicManager(cmd *cobra.Command) (*admin.TopicManager, error) {
	if err := requireAdmin(); err != nil {
		return nil, err
	}
	mgr := admin.NewTopicManager(current.client, confirm, current.logger)
	if err := mgr.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return mgr, nil
}

func chatManager(cmd *cobra.Command) (*admin.ChatManager, error) {
	if err := requireAdmin(); err != nil {
		return nil, err
	}
	mgr := admin.NewChatManager(current.client, confirm, current.logger)
	if err := mgr.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return mgr, nil
}

func parseRole(s string) (model.Role, error) {
	switch model.Role(s) {
	case model.RoleAdmin, model.RoleUser:
		return model.Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q (expected ADMIN or USER)", s)
	}
}
