package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/knowledge"
	"gopkg.in/yaml.v3"
)

func newKnowledgeCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Inspect and edit the knowledge graph",
	}

	client := func() *knowledge.Client { return knowledge.NewClient(st.dispatcher) }

	cmd.AddCommand(&cobra.Command{
		Use:   "nodes",
		Short: "List all nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nodes, err := client().GetAllNodes(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), nodes)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <name>",
		Short: "Search nodes by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := client().SearchNodes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), nodes)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-node <name>",
		Short: "Create a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client().AddNode(cmd.Context(), knowledge.NodeCreateReq{Name: args[0]})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "link <source> <type> <target>",
		Short: "Create a relationship",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client().AddRelationship(cmd.Context(), knowledge.Relationship{
				SourceName: args[0],
				Type:       args[1],
				TargetName: args[2],
			})
		},
	})

	var outgoing, incoming string
	rels := &cobra.Command{
		Use:   "relationships",
		Short: "List relationships, optionally around one node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				out []knowledge.Relationship
				err error
			)
			switch {
			case outgoing != "":
				out, err = client().GetOutgoingRelationships(cmd.Context(), outgoing)
			case incoming != "":
				out, err = client().GetIncomingRelationships(cmd.Context(), incoming)
			default:
				out, err = client().GetAllRelationships(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	rels.Flags().StringVar(&outgoing, "outgoing", "", "Only edges leaving this node")
	rels.Flags().StringVar(&incoming, "incoming", "", "Only edges entering this node")
	rels.MarkFlagsMutuallyExclusive("outgoing", "incoming")
	cmd.AddCommand(rels)

	var output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the whole graph as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, err := client().Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				fh, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer fh.Close()
				w = fh
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(graph); err != nil {
				return fmt.Errorf("encode graph: %w", err)
			}
			return enc.Close()
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "Destination file (stdout when empty or -)")
	cmd.AddCommand(export)

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
