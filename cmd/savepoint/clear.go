package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var clearForce bool

// clearCmd removes the checkpoint file. This is the only deletion surface;
// the library itself never deletes a checkpoint.
var clearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Remove a checkpoint so the next run starts cold",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	path := checkpointPath(args)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("no checkpoint at %s\n", path)
		return nil
	}

	if !clearForce {
		fmt.Printf("remove checkpoint %s? [y/N] ", path)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}

	fmt.Printf("removed %s\n", path)
	return nil
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "remove without confirmation")
}
