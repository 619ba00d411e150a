package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/etudesn/notacompta/internal/adapter/repository/postgres"
	"github.com/etudesn/notacompta/internal/infrastructure/chart"
	"github.com/etudesn/notacompta/internal/infrastructure/config"
	"github.com/etudesn/notacompta/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notacompta-cli",
		Short: "NotaCompta CLI tool",
		Long:  `A command line interface for the NotaCompta notarial accounting API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the NotaCompta API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(false)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(true)
		},
	})
	rootCmd.AddCommand(migrateCmd)

	// Seed the OHADA chart of accounts
	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Seed the OHADA chart of accounts",
		Run: func(cmd *cobra.Command, args []string) {
			seedChart()
		},
	})

	// Provision calculation
	provisionCmd := &cobra.Command{
		Use:   "provision [type-acte]",
		Short: "Calculate the provision for a notarial act",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			calculateProvision(args[0], cmd.Flags().Lookup("capital").Value.String(), cmd.Flags().Lookup("prix").Value.String())
		},
	}
	provisionCmd.Flags().String("capital", "", "Share capital in FCFA")
	provisionCmd.Flags().String("prix", "", "Sale price in FCFA")
	rootCmd.AddCommand(provisionCmd)

	// Client balance
	rootCmd.AddCommand(&cobra.Command{
		Use:   "balance [client-id]",
		Short: "Show a client account balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalance(args[0])
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMigrations(down bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if down {
		err = postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
	} else {
		err = postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migrations applied")
}

func seedChart() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		fmt.Printf("Failed to connect to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	accounts, err := chart.Load(time.Now())
	if err != nil {
		fmt.Printf("Failed to load chart of accounts: %v\n", err)
		os.Exit(1)
	}
	if err := postgresRepo.NewAccountRepository(pool).Seed(ctx, accounts); err != nil {
		fmt.Printf("Failed to seed chart of accounts: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d accounts\n", len(accounts))
}

func calculateProvision(typeActe, capital, prix string) {
	payload := map[string]string{"typeActe": strings.ToUpper(typeActe)}
	if capital != "" {
		payload["capital"] = capital
	}
	if prix != "" {
		payload["prix"] = prix
	}
	body, _ := json.Marshal(payload)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/bareme/provisions", "application/json", strings.NewReader(string(body)))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Calculation FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(data))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Provision for %s\n", result["typeActe"])
	fmt.Printf("  Honoraires:      %v FCFA\n", result["honoraires"])
	fmt.Printf("  Enregistrement:  %v FCFA\n", result["enregistrement"])
	fmt.Printf("  TVA:             %v FCFA\n", result["tva"])
	fmt.Printf("  Total HT:        %v FCFA\n", result["totalHT"])
	fmt.Printf("  Total TTC:       %v FCFA\n", result["totalTTC"])
}

func showBalance(clientID string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/clients/" + clientID + "/balance")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(data))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Client %s balance: %v FCFA\n", result["clientId"], result["balance"])
}
