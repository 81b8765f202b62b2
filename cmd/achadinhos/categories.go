package main

import (
	"encoding/json"
	"log"

	"github.com/spf13/cobra"

	"achadinhos/internal/fileutil"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Baixa a árvore de categorias da API e salva em JSON",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}
	list, err := newAPIClient().Categories(cmd.Context())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(list, "", "    ")
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(cfg.CategoriesOutPath, data, 0o644); err != nil {
		return err
	}
	log.Printf("[Categorias] %d categorias salvas em %s", len(list), cfg.CategoriesOutPath)
	return nil
}
