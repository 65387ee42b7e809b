package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onboardkit/onboardkit/engine/knowledge"
	"github.com/onboardkit/onboardkit/pkg/config"
)

// IngestCmd loads onboarding documents into the vector store.
func IngestCmd() *cobra.Command {
	var docsDir string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest onboarding documents into the vector store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := knowledge.OpenPGVectorStore(cmd.Context(), knowledge.StoreConfig{
				DSN:        cfg.Knowledge.DSN,
				Collection: cfg.Knowledge.Collection,
				EmbedModel: cfg.Knowledge.EmbedModel,
				BaseURL:    cfg.LLM.BaseURL,
			})
			if err != nil {
				return err
			}
			ingestor := knowledge.NewIngestor(store, knowledge.IngestConfig{
				ChunkSize:    cfg.Knowledge.ChunkSize,
				ChunkOverlap: cfg.Knowledge.ChunkOverlap,
			})
			chunks, err := ingestor.IngestDir(cmd.Context(), docsDir)
			if err != nil {
				return err
			}
			fmt.Printf("Ingested %d chunks from %s\n", chunks, docsDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&docsDir, "docs", "data/docs", "Directory of .md/.txt documents to ingest")
	return cmd
}
