package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bankledger-cli",
		Short: "BankLedger CLI tool",
		Long:  `A command line interface for interacting with the BankLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BankLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		createAccountCmd(),
		getAccountCmd(),
		ledgerCmd(),
		depositCmd(),
		withdrawCmd(),
		transferCmd(),
		closeAccountCmd(),
		consistencyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createAccountCmd() *cobra.Command {
	var userID, accountType, currency string

	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create a new account",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/accounts", map[string]any{
				"user_id":      userID,
				"account_type": accountType,
				"currency":     currency,
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Owner user ID")
	cmd.Flags().StringVar(&accountType, "type", "checking", "Account type (checking or savings)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code")
	cmd.MarkFlagRequired("user")

	return cmd
}

func getAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account <id>",
		Short: "Show an account with its current balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0])
		},
	}
}

func ledgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger <account-id>",
		Short: "Show an account's ledger entries, oldest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0] + "/ledger")
		},
	}
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check the ledger's double-entry consistency",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/ledger/consistency")
		},
	}
}

func depositCmd() *cobra.Command {
	var amount, currency, description string

	cmd := &cobra.Command{
		Use:   "deposit <account-id>",
		Short: "Deposit funds into an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/deposits", movementBody(map[string]any{
				"account_id": args[0],
				"amount":     amount,
				"currency":   currency,
			}, description))
		},
	}

	addMovementFlags(cmd, &amount, &currency, &description)

	return cmd
}

func withdrawCmd() *cobra.Command {
	var amount, currency, description string

	cmd := &cobra.Command{
		Use:   "withdraw <account-id>",
		Short: "Withdraw funds from an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/withdrawals", movementBody(map[string]any{
				"account_id": args[0],
				"amount":     amount,
				"currency":   currency,
			}, description))
		},
	}

	addMovementFlags(cmd, &amount, &currency, &description)

	return cmd
}

func transferCmd() *cobra.Command {
	var amount, currency, description string

	cmd := &cobra.Command{
		Use:   "transfer <source-id> <destination-id>",
		Short: "Transfer funds between two accounts",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/transfers", movementBody(map[string]any{
				"source_account_id":      args[0],
				"destination_account_id": args[1],
				"amount":                 amount,
				"currency":               currency,
			}, description))
		},
	}

	addMovementFlags(cmd, &amount, &currency, &description)

	return cmd
}

func closeAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close-account <id>",
		Short: "Close an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/accounts/"+args[0]+"/close", nil)
		},
	}
}

func addMovementFlags(cmd *cobra.Command, amount, currency, description *string) {
	cmd.Flags().StringVar(amount, "amount", "", "Amount as a decimal string")
	cmd.Flags().StringVar(currency, "currency", "USD", "ISO 4217 currency code")
	cmd.Flags().StringVar(description, "description", "", "Optional description")
	cmd.MarkFlagRequired("amount")
}

func movementBody(body map[string]any, description string) map[string]any {
	if description != "" {
		body["description"] = description
	}
	return body
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, body map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", &buf)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	raw, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Printf("Status: %d\n%s\n", resp.StatusCode, string(raw))
	} else {
		fmt.Printf("Status: %d\n%s\n", resp.StatusCode, pretty.String())
	}

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
