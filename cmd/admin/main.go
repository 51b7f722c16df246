// Command admin provides account maintenance utilities.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"skyhub/internal/cache"
	"skyhub/internal/config"
	"skyhub/internal/database"
	"skyhub/internal/featureflags"
	"skyhub/internal/repository"
	"skyhub/internal/service"
)

var errUsage = errors.New("invalid usage")

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin set-role <user_id> <admin|user|company|government>")
	fmt.Println("  admin restore <user_id>     - undo a soft delete")
	fmt.Println("  admin list-users [-page N] [-limit N]")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// the server caches user records; writes here must evict them
	cache.InitRedis(cfg.RedisURL)

	users := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewDroneRepository(db),
		repository.NewFavoriteRepository(db),
		featureflags.NewManager(cfg.FeatureFlags),
	)

	err = runCommand(context.Background(), users, os.Args[1:], os.Stdout)
	if client := cache.GetClient(); client != nil {
		_ = client.Close()
	}
	if errors.Is(err, errUsage) {
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runCommand(ctx context.Context, users *service.UserService, args []string, out io.Writer) error {
	switch args[0] {
	case "set-role":
		if len(args) < 3 {
			return errUsage
		}
		id, err := parseUserID(args[1])
		if err != nil {
			return err
		}
		user, err := users.SetRole(ctx, id, args[2])
		if err != nil {
			return fmt.Errorf("failed to set role: %w", err)
		}
		fmt.Fprintf(out, "%s (ID: %d) is now %s\n", user.Username, user.ID, user.Role)

	case "restore":
		if len(args) < 2 {
			return errUsage
		}
		id, err := parseUserID(args[1])
		if err != nil {
			return err
		}
		user, err := users.Restore(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to restore user: %w", err)
		}
		fmt.Fprintf(out, "Restored %s (ID: %d)\n", user.Username, user.ID)

	case "list-users":
		fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", service.DefaultPageSize, "page size")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		list, err := users.List(ctx, *page, *limit)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No users found")
			return nil
		}
		for _, u := range list {
			fmt.Fprintf(out, "ID: %d | Username: %s | Email: %s | Role: %s\n", u.ID, u.Username, u.Email, u.Role)
		}

	default:
		fmt.Fprintf(out, "Unknown command: %s\n", args[0])
		return errUsage
	}
	return nil
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return uint(id), nil
}
