package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/format"
	"github.com/umanagarjuna/steam-bot/pkg/validator"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search games by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(opts, func(cmd *cobra.Command, s *session, args []string) error {
			entries, err := s.steam.Search(cmd.Context(), strings.Join(args, " "), s.settings)
			if err != nil && !errors.Is(err, domain.ErrEmptyResult) {
				return err
			}
			return printSearch(cmd.OutOrStdout(), entries)
		}),
	}
}

func newAppCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "app <id>",
		Short: "Show the game card for an app id",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(cmd *cobra.Command, s *session, args []string) error {
			if err := validator.ValidateAppID(args[0]); err != nil {
				return err
			}
			details, err := s.steam.AppDetails(cmd.Context(), args[0], s.settings)
			if errors.Is(err, domain.ErrEmptyResult) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), format.NothingFound)
				return err
			}
			if err != nil {
				return err
			}
			card, err := s.formatter.GameCard(details)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(card))
			return err
		}),
	}
}

func newNewsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news <id>",
		Short: "Show the latest news for an app id",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(cmd *cobra.Command, s *session, args []string) error {
			if err := validator.ValidateAppID(args[0]); err != nil {
				return err
			}
			items, err := s.steam.News(cmd.Context(), args[0], opts.count)
			if err != nil && !errors.Is(err, domain.ErrEmptyResult) {
				return err
			}
			if len(items) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), format.NoNews)
				return err
			}
			for _, item := range items {
				card, err := s.formatter.NewsCard(item)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(card)+"\n"); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&opts.count, "count", 3, "number of news items")
	return cmd
}
