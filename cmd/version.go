package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gorail/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gorail",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gorail v%s\n", version.Version)
		fmt.Println("Railway Load Generation Tool")
		fmt.Printf("Built %s from commit %s\n", version.BuildTime, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
