package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/solari/internal/cli"
	"github.com/Veraticus/solari/internal/ledger"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, rename, and delete the categories transactions are grouped under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			categories := s.store.Categories()
			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'solari categories add' to create one."))
				return nil
			}

			cli.RenderCategories(os.Stdout, categories)
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			category, err := s.store.AddCategory(args[0])
			if err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created category %q (id %d)", category.Name, category.ID)))
			return nil
		},
	}
}

func renameCategoryCmd() *cobra.Command {
	var newName string

	cmd := &cobra.Command{
		Use:   "rename <id>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category id: %w", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.store.RenameCategory(id, newName); err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("renamed category #%d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "new category name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. This fails while any transaction still references it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category id: %w", err)
			}

			// Confirm deletion
			if !force {
				fmt.Printf("Are you sure you want to delete category %d? (y/N): ", id)
				var response string
				_, _ = fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.store.RemoveCategory(id); err != nil {
				if errors.Is(err, ledger.ErrReferentialIntegrity) {
					return fmt.Errorf("category %d still has transactions; delete or move them first", id)
				}
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted category #%d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
