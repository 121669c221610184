package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/catalog"
	"github.com/j-veylop/aiconsole/internal/models"
)

func (r *runner) networksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "networks",
		Aliases: []string{"network", "nn"},
		Short:   "Manage neural network configurations",
	}
	cmd.AddCommand(
		r.networksListCmd(),
		r.networksGetCmd(),
		r.networksDeleteCmd(),
		r.networksApplyCmd(),
	)
	return cmd
}

func (r *runner) networksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List networks ordered by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			networks, err := mgr.Client().ListNetworks(cmd.Context())
			if err != nil {
				return err
			}
			models.SortNetworksByPriority(networks)

			return r.render(networks, func(w io.Writer) {
				if len(networks) == 0 {
					fmt.Fprintln(w, "No networks configured.")
					return
				}
				rows := make([][]string, 0, len(networks))
				for _, n := range networks {
					rows = append(rows, []string{
						n.ID,
						n.Name,
						n.Label(),
						n.Provider,
						string(n.NetworkType),
						n.ModelName,
						strconv.Itoa(n.Priority),
						yesNo(n.IsActive),
					})
				}
				printTable(w, []string{"ID", "NAME", "DISPLAY NAME", "PROVIDER", "TYPE", "MODEL", "PRIORITY", "ACTIVE"}, rows)
			})
		},
	}
}

func (r *runner) networksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			n, err := mgr.Client().GetNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return r.render(n, func(w io.Writer) {
				printFields(w, [][2]string{
					{"ID", n.ID},
					{"Name", n.Name},
					{"Display name", n.DisplayName},
					{"Provider", n.Provider},
					{"Type", string(n.NetworkType)},
					{"API URL", n.APIURL},
					{"Model", n.ModelName},
					{"Priority", strconv.Itoa(n.Priority)},
					{"Timeout", fmt.Sprintf("%ds", n.TimeoutSeconds)},
					{"Max retries", strconv.Itoa(n.MaxRetries)},
					{"Active", yesNo(n.IsActive)},
					{"Free", yesNo(n.IsFree)},
					{"Cost per token", humanize.FtoaWithDigits(float64(n.CostPerTokenRub), 6) + " RUB"},
					{"Updated", humanize.Time(n.UpdatedAt.Time)},
				})
				if n.ConnectionInstruction != "" {
					fmt.Fprintf(w, "\nConnection instruction:\n%s\n", n.ConnectionInstruction)
				}
				fmt.Fprintf(w, "\nRequest mapping:\n%s\n", indentJSON(n.RequestMapping))
				fmt.Fprintf(w, "\nResponse mapping:\n%s\n", indentJSON(n.ResponseMapping))
			})
		},
	}
}

func (r *runner) networksDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			id := args[0]
			if !yes {
				ok, err := r.confirm(fmt.Sprintf("Delete network %s?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(r.opts.Out, "Aborted.")
					return nil
				}
			}
			err = mgr.Mutate(cmd.Context(), "delete", app.ResourceNetworks, id, func(ctx context.Context) error {
				return mgr.Client().DeleteNetwork(ctx, id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "Network %s deleted\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// networkManifest is one network in an apply file. Mappings are written as
// plain YAML or JSON objects and sent to the API as JSON.
type networkManifest struct {
	models.NetworkRequest `yaml:",inline"`

	RequestMapping  map[string]any `yaml:"requestMapping,omitempty"`
	ResponseMapping map[string]any `yaml:"responseMapping,omitempty"`
	ID              string         `yaml:"id,omitempty"`
}

func (r *runner) networksApplyCmd() *cobra.Command {
	var (
		file    string
		example bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update networks from a YAML or JSON file",
		Long: `Create or update networks from a YAML or JSON file.

A network that names an existing id, or whose name matches an existing network,
is updated; any other is created. A file may hold several YAML documents. An
update without apiKey keeps the stored provider key.`,
		Example: `  aiconsole networks apply -f gpt.yaml

  # Fill missing URL, model and mappings from the provider presets
  aiconsole networks apply -f mistral.json --example`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			manifests, err := r.readManifests(file)
			if err != nil {
				return err
			}

			existing, err := mgr.Client().ListNetworks(cmd.Context())
			if err != nil {
				return err
			}
			byName := make(map[string]string, len(existing))
			for _, n := range existing {
				byName[n.Name] = n.ID
			}

			for i := range manifests {
				req, err := manifests[i].request(example)
				if err != nil {
					return fmt.Errorf("%s: document %d: %w", file, i+1, err)
				}

				id := manifests[i].ID
				if id == "" {
					id = byName[req.Name]
				}

				if id == "" {
					if req.APIKey == "" {
						return fmt.Errorf("%s: document %d: apiKey is required for new network %s", file, i+1, req.Name)
					}
					var created *models.NeuralNetwork
					err = mgr.Mutate(cmd.Context(), "create", app.ResourceNetworks, "", func(ctx context.Context) error {
						var err error
						created, err = mgr.Client().CreateNetwork(ctx, req)
						return err
					})
					if err != nil {
						return fmt.Errorf("create %s: %w", req.Name, err)
					}
					byName[created.Name] = created.ID
					fmt.Fprintf(r.opts.Out, "Network %s created (%s)\n", created.Name, created.ID)
					continue
				}

				err = mgr.Mutate(cmd.Context(), "update", app.ResourceNetworks, id, func(ctx context.Context) error {
					_, err := mgr.Client().UpdateNetwork(ctx, id, req)
					return err
				})
				if err != nil {
					return fmt.Errorf("update %s: %w", req.Name, err)
				}
				fmt.Fprintf(r.opts.Out, "Network %s updated (%s)\n", req.Name, id)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file, - for stdin")
	cmd.Flags().BoolVar(&example, "example", false, "fill missing connection fields and mappings from the provider presets")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readManifests decodes every document of a YAML or JSON file.
func (r *runner) readManifests(path string) ([]networkManifest, error) {
	var in io.Reader = r.in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	var out []networkManifest
	dec := yaml.NewDecoder(in)
	for {
		// Fields a document leaves out keep the new-network defaults.
		m := networkManifest{NetworkRequest: models.DefaultNetworkRequest()}
		m.NetworkRequest.RequestMapping = nil
		m.NetworkRequest.ResponseMapping = nil

		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s contains no networks", path)
	}
	return out, nil
}

// request validates the manifest and converts it to an API payload.
func (m *networkManifest) request(example bool) (models.NetworkRequest, error) {
	req := m.NetworkRequest

	var err error
	if m.RequestMapping != nil {
		if req.RequestMapping, err = json.Marshal(m.RequestMapping); err != nil {
			return req, fmt.Errorf("requestMapping: %w", err)
		}
	}
	if m.ResponseMapping != nil {
		if req.ResponseMapping, err = json.Marshal(m.ResponseMapping); err != nil {
			return req, fmt.Errorf("responseMapping: %w", err)
		}
	}

	if example {
		mapped := req.RequestMapping != nil || req.ResponseMapping != nil
		reqMap, respMap := req.RequestMapping, req.ResponseMapping
		catalog.Apply(&req)
		if mapped {
			req.RequestMapping, req.ResponseMapping = reqMap, respMap
		}
	}
	if req.RequestMapping == nil {
		req.RequestMapping = json.RawMessage("{}")
	}
	if req.ResponseMapping == nil {
		req.ResponseMapping = json.RawMessage("{}")
	}

	switch {
	case req.Name == "":
		return req, errors.New("name is required")
	case req.APIURL == "":
		return req, errors.New("apiUrl is required")
	case req.ModelName == "":
		return req, errors.New("modelName is required")
	case !req.NetworkType.Valid():
		return req, fmt.Errorf("unknown networkType %q", req.NetworkType)
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Name
	}
	return req, nil
}

func indentJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "  {}"
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "  " + string(raw)
	}
	b, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return "  " + string(raw)
	}
	return "  " + string(b)
}
