// cmd/geoflow-migrate applies and rolls back database migrations,
// grounded on the teacher's cmd/goflow-migrate/main.go. The "up" command
// loads a .env file, resolves a connection string from a --db flag or
// DB_* environment variables, and runs golang-migrate/migrate against
// the migrations directory; the "down" command rolls back the last
// migration and takes its connection string from --db only.
package main

import (
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{Use: "geoflow-migrate"}

var migrateCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("no .env file found or failed to load: %v. Using --db flag or DB_* vars.\n", err)
		}

		connStr, _ := cmd.Flags().GetString("db")
		if connStr == "" {
			user := os.Getenv("DB_USERNAME")
			pass := os.Getenv("DB_PASSWORD")
			host := os.Getenv("DB_HOST")
			port := os.Getenv("DB_PORT")
			name := os.Getenv("DB_NAME")
			if user == "" || pass == "" || host == "" || port == "" || name == "" {
				fmt.Println("error: --db flag or complete DB_* env vars (DB_USERNAME, DB_PASSWORD, DB_HOST, DB_PORT, DB_NAME) required")
				os.Exit(1)
			}
			connStr = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)
		}

		m, err := migrate.New("file://migrations", connStr)
		if err != nil {
			fmt.Printf("failed to initialize migrations: %v\n", err)
			os.Exit(1)
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			fmt.Printf("failed to apply migrations: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied successfully")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last applied migration",
	Run: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("no .env file found or failed to load: %v. Using --db flag or DB_* vars.\n", err)
		}
		connStr, _ := cmd.Flags().GetString("db")
		if connStr == "" {
			fmt.Println("error: --db flag required")
			os.Exit(1)
		}
		m, err := migrate.New("file://migrations", connStr)
		if err != nil {
			fmt.Printf("failed to initialize migrations: %v\n", err)
			os.Exit(1)
		}
		if err := m.Steps(-1); err != nil {
			fmt.Printf("failed to roll back migration: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("last migration rolled back")
	},
}

func main() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(downCmd)
	migrateCmd.Flags().String("db", "", "database connection string (optional if DB_* env vars are set)")
	downCmd.Flags().String("db", "", "database connection string")
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
