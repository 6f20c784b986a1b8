package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bamsammich/partsplit/internal/engine"
)

func newRecipeCmd() *cobra.Command {
	var (
		shell     string
		partWidth int
		repoRoot  string
	)

	cmd := &cobra.Command{
		Use:   "recipe [root]",
		Short: "Print the commands that rebuild split files from their parts",
		Long: `recipe lists every part set under root and prints the command that
concatenates it back into the original file. Nothing is executed or written.
A relative root resolves against --repo-root (default: working directory),
the same as for the split command. Sets with gaps or duplicated sequence
numbers are reported on stderr and make the command exit 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := engine.ParseShell(shell)
			if err != nil {
				return err
			}
			root := engine.DefaultRoot
			if len(args) == 1 {
				root = args[0]
			}
			root = resolveRoot(repoRoot, root)
			if root == "" {
				return errors.New("resolve root: cannot determine working directory")
			}
			return printRecipes(cmd, afero.NewOsFs(), root, partWidth, sh)
		},
	}
	cmd.Flags().StringVar(&shell, "shell", "posix", "recipe syntax (posix or windows)")
	cmd.Flags().IntVar(&partWidth, "part-width", engine.DefaultPartWidth, "digits in the .partNN suffix")
	cmd.Flags().StringVar(&repoRoot, "repo-root", "", "repository root a relative root resolves against (default: working directory)")
	return cmd
}

func printRecipes(cmd *cobra.Command, fsys afero.Fs, root string, width int, sh engine.Shell) error {
	sets, err := engine.DiscoverPartSets(fsys, root, width)
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	incomplete := 0
	for _, set := range sets {
		if !set.Complete() {
			incomplete++
			path := filepath.Join(set.Dir, set.Base)
			if len(set.Missing) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "incomplete: %s missing parts %v\n", path, set.Missing)
			}
			if len(set.Duplicates) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "ambiguous: %s duplicate parts %v\n", path, set.Duplicates)
			}
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), engine.MergeRecipe(set, sh))
	}

	if incomplete > 0 {
		return &exitError{code: 1}
	}
	return nil
}
