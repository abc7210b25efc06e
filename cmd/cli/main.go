package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thenumber",
		Short: "The Number CLI",
		Long:  `A command line interface for the daily budget service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (when the server runs with auth enabled)")

	rootCmd.AddCommand(numberCmd())
	rootCmd.AddCommand(configureCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(expenseCmd())
	rootCmd.AddCommand(txCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func numberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "number",
		Short: "Show today's spending number",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/number")
		},
	}
}

func configureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure the budget",
	}

	var income string
	var days int
	paycheck := &cobra.Command{
		Use:   "paycheck",
		Short: "Budget against a monthly income and the next paycheck",
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/budget/configure", map[string]any{
				"mode":                "paycheck",
				"monthly_income":      income,
				"days_until_paycheck": days,
			})
		},
	}
	paycheck.Flags().StringVar(&income, "income", "", "Monthly income")
	paycheck.Flags().IntVar(&days, "days", 0, "Days until the next paycheck")
	paycheck.MarkFlagRequired("income")
	paycheck.MarkFlagRequired("days")

	var total, target, dailyLimit string
	pool := &cobra.Command{
		Use:   "pool",
		Short: "Budget a fixed pool of money",
		Long:  "Set exactly one of --target (stretch the pool to a date) or --daily-limit (see how long the pool lasts).",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"mode":        "fixed_pool",
				"total_money": total,
			}
			if target != "" {
				body["target_end_date"] = target
			}
			if dailyLimit != "" {
				body["daily_spending_limit"] = dailyLimit
			}
			post("/api/v1/budget/configure", body)
		},
	}
	pool.Flags().StringVar(&total, "total", "", "Total money available")
	pool.Flags().StringVar(&target, "target", "", "Target end date (RFC 3339)")
	pool.Flags().StringVar(&dailyLimit, "daily-limit", "", "Daily spending limit")
	pool.MarkFlagRequired("total")

	cmd.AddCommand(paycheck, pool)
	return cmd
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current budget configuration",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/budget/config")
		},
	}
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage recurring expenses",
	}

	var fixed bool
	add := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Add a recurring expense",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/expenses/", map[string]any{
				"name":     args[0],
				"amount":   args[1],
				"is_fixed": fixed,
			})
		},
	}
	add.Flags().BoolVar(&fixed, "fixed", false, "Mark the expense as fixed")

	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses with their total",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/expenses/")
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an expense",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			del("/api/v1/expenses/" + args[0])
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Log and inspect transactions",
	}

	var category string
	add := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Log a transaction",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"amount":      args[0],
				"description": args[1],
			}
			if category != "" {
				body["category"] = category
			}
			post("/api/v1/transactions/", body)
		},
	}
	add.Flags().StringVar(&category, "category", "", "Transaction category (use \"income\" for money in)")

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			params := url.Values{}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				params.Set("offset", strconv.Itoa(offset))
			}
			path := "/api/v1/transactions/"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}
			get(path)
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "Maximum number of transactions")
	list.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			del("/api/v1/transactions/" + args[0])
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func get(path string) {
	do(http.MethodGet, path, nil)
}

func post(path string, body map[string]any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}
	do(http.MethodPost, path, payload)
}

func del(path string) {
	do(http.MethodDelete, path, nil)
}

func do(method, path string, payload []byte) {
	client := &http.Client{Timeout: timeout}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
		return
	}
	printJSON(decoded)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
