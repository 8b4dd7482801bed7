package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/config"
	"github.com/Daihongyi/surf/internal/output"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named request profiles",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfigOrExit()
			if len(cfg.Profiles) == 0 {
				output.PrintInfo("No profiles defined")
				return
			}
			names := make([]string, 0, len(cfg.Profiles))
			for name := range cfg.Profiles {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				profile := cfg.Profiles[name]
				line := name
				if profile.BaseURL != "" {
					line += "  " + output.FDebug(profile.BaseURL)
				}
				fmt.Println(line)
			}
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [NAME]",
		Short: "Show one profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfigOrExit()
			profile, ok := cfg.GetProfile(args[0])
			if !ok {
				output.PrintError(fmt.Sprintf("Unknown profile: %s", args[0]))
				os.Exit(1)
			}
			output.PrintHeader(profile.Name)
			if profile.BaseURL != "" {
				fmt.Printf("Base URL:         %s\n", profile.BaseURL)
			}
			if profile.Timeout > 0 {
				fmt.Printf("Timeout:          %ds\n", profile.Timeout)
			}
			fmt.Printf("Follow redirects: %t\n", profile.FollowRedirects)
			for key, value := range profile.Headers {
				fmt.Printf("Header:           %s: %s\n", key, value)
			}
		},
	}

	var (
		baseURL         string
		headers         []string
		timeout         int
		followRedirects bool
	)
	addCmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Add or replace a profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfigOrExit()
			profile := config.Profile{
				Name:            args[0],
				BaseURL:         baseURL,
				Headers:         make(map[string]string),
				Timeout:         timeout,
				FollowRedirects: followRedirects,
			}
			for _, h := range client.ParseHeaderArgs(headers) {
				profile.Headers[h.Key] = h.Value
			}
			cfg.AddProfile(profile)
			if err := cfg.Save(config.DefaultPath()); err != nil {
				output.PrintError(fmt.Sprintf("Could not save config: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Profile %s saved", profile.Name))
		},
	}
	addCmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL for relative request paths")
	addCmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Default headers; can be specified multiple times")
	addCmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "Connect timeout in seconds")
	addCmd.Flags().BoolVarP(&followRedirects, "follow-redirects", "L", false, "Follow redirects by default")

	removeCmd := &cobra.Command{
		Use:   "remove [NAME]",
		Short: "Remove a profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfigOrExit()
			if !cfg.RemoveProfile(args[0]) {
				output.PrintError(fmt.Sprintf("Unknown profile: %s", args[0]))
				os.Exit(1)
			}
			if err := cfg.Save(config.DefaultPath()); err != nil {
				output.PrintError(fmt.Sprintf("Could not save config: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Profile %s removed", args[0]))
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(removeCmd)
	return cmd
}

func loadConfigOrExit() *config.Config {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		output.PrintError(fmt.Sprintf("Could not load config: %v", err))
		os.Exit(1)
	}
	return cfg
}
