package main

import (
	"fmt"
	"yourplaces/internal/config"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// userCommand groups helpers for the user records places are attached to.
// Accounts are owned by the identity service; these only seed local setups.
func userCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manages place owners",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Registers a user that can own places",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			name, _ := cmd.Flags().GetString("name")
			rawID, _ := cmd.Flags().GetString("id")

			id := uuid.New()
			if rawID != "" {
				parsed, err := uuid.Parse(rawID)
				if err != nil {
					logger.Fatal(ctx, "invalid user id", zap.String("id", rawID), zap.Error(err))
				}
				id = parsed
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			users, err := strg.StoreUsers(ctx, domain.User{ID: domain.UserID(id), Name: name})
			if err != nil {
				logger.Fatal(ctx, "could not store user", zap.Error(err))
			}

			fmt.Println(users[0].ID.String()) //nolint: forbidigo
		},
	}
	add.Flags().String("name", "", "Display name of the user")
	add.Flags().String("id", "", "User ID, generated when empty")
	_ = add.MarkFlagRequired("name")

	show := &cobra.Command{
		Use:   "places <user-id>",
		Short: "Prints the place ids recorded on a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			id, err := uuid.Parse(args[0])
			if err != nil {
				logger.Fatal(ctx, "invalid user id", zap.String("id", args[0]), zap.Error(err))
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			user, err := strg.UserByID(ctx, domain.UserID(id))
			if err != nil {
				logger.Fatal(ctx, "could not fetch user", zap.Error(err))
			}
			if user == nil {
				logger.Fatal(ctx, "user not found", zap.String("id", args[0]))

				return
			}

			for _, placeID := range user.Places {
				fmt.Println(placeID.String()) //nolint: forbidigo
			}
		},
	}

	cmd.AddCommand(add, show)

	return cmd
}
