package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vyachin/schemathesis/pkg/credential"
)

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored API credentials",
	}
	cmd.AddCommand(newAuthLoginCommand(), newAuthLogoutCommand(), newAuthListCommand())
	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		credentialType string
		token          string
		username       string
		header         string
	)

	cmd := &cobra.Command{
		Use:   "login <host>",
		Short: "Store a credential for a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			cred := credential.Credential{
				Type:   credential.Type(credentialType),
				Header: header,
			}

			switch cred.Type {
			case credential.TypeBearer, credential.TypeAPIKey:
				cred.Token = token
				if cred.Token == "" {
					value, err := promptSecret(fmt.Sprintf("Token for %s: ", host))
					if err != nil {
						return err
					}
					cred.Token = value
				}
			case credential.TypeBasic:
				cred.Username = username
				if cred.Username == "" {
					value, err := promptLine(fmt.Sprintf("Username for %s: ", host))
					if err != nil {
						return err
					}
					cred.Username = value
				}
				password, err := promptSecret(fmt.Sprintf("Password for %s: ", host))
				if err != nil {
					return err
				}
				cred.Password = password
			default:
				return fmt.Errorf("unknown credential type %q (want bearer, api_key or basic)", credentialType)
			}

			store, err := credential.NewStore()
			if err != nil {
				return err
			}
			if err := store.Set(host, cred); err != nil {
				return err
			}
			fmt.Printf("Stored %s credential for %s\n", cred.Type, host)
			return nil
		},
	}

	cmd.Flags().StringVar(&credentialType, "type", string(credential.TypeBearer), "credential type: bearer, api_key or basic")
	cmd.Flags().StringVar(&token, "token", "", "token value (prompted when omitted)")
	cmd.Flags().StringVar(&username, "username", "", "username for basic authentication")
	cmd.Flags().StringVar(&header, "header", "", "header name for api_key credentials")

	return cmd
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <host>",
		Short: "Remove the stored credential for a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credential.NewStore()
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed credential for %s\n", args[0])
			return nil
		},
	}
}

func newAuthListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List hosts with stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credential.NewStore()
			if err != nil {
				return err
			}
			hosts, err := store.Hosts()
			if err != nil {
				return err
			}
			if len(hosts) == 0 {
				fmt.Println("No stored credentials")
				return nil
			}
			for _, host := range hosts {
				fmt.Println(host)
			}
			return nil
		},
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(prompt)
	}
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(secret), nil
}
