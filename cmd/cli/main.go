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
		Use:   "gopay-cli",
		Short: "GoPay CLI tool",
		Long:  `A command line interface for interacting with the GoPay transaction API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoPay API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	txnCmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}

	var (
		sourceAccountID string
		targetAccountID string
		transferType    int
		value           string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a transaction and submit it for anti-fraud validation",
		Run: func(cmd *cobra.Command, args []string) {
			createTransaction(sourceAccountID, targetAccountID, transferType, value)
		},
	}
	createCmd.Flags().StringVar(&sourceAccountID, "source", "", "Source account ID")
	createCmd.Flags().StringVar(&targetAccountID, "target", "", "Target account ID")
	createCmd.Flags().IntVar(&transferType, "type", 1, "Transfer type (1=immediate, 2=scheduled, 3=external)")
	createCmd.Flags().StringVar(&value, "value", "", "Transaction value")
	createCmd.MarkFlagRequired("source")
	createCmd.MarkFlagRequired("target")
	createCmd.MarkFlagRequired("value")

	getCmd := &cobra.Command{
		Use:   "get <external-id>",
		Short: "Get a transaction by external ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getTransaction(args[0])
		},
	}

	txnCmd.AddCommand(createCmd)
	txnCmd.AddCommand(getCmd)
	rootCmd.AddCommand(txnCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createTransaction(source, target string, transferType int, value string) {
	payload, _ := json.Marshal(map[string]any{
		"source_account_id": source,
		"target_account_id": target,
		"transfer_type":     transferType,
		"value":             value,
	})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/transactions", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Create FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Transaction accepted\n")
	fmt.Printf("External ID: %s\n", result["transaction_external_id"])
	fmt.Printf("Created at: %s\n", result["created_at"])
}

func getTransaction(externalID string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/transactions/" + externalID)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Get FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
