// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olegiv/studio-go/internal/client"
	"github.com/olegiv/studio-go/internal/content"
	"github.com/olegiv/studio-go/internal/model"
)

// adminPanel is the part of a content panel driven by the admin commands.
type adminPanel[T model.Entity, In content.Input] interface {
	Load(ctx context.Context) error
	Items() []T
	Form() content.Form[In]
	OpenNew()
	OpenEdit(id string) error
	Edit(fn func(*In)) error
	Submit(ctx context.Context) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type imageAttacher interface {
	AttachImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// collectionCmd describes one collection to the admin commands.
type collectionCmd[T model.Entity, In content.Input] struct {
	name   string
	label  string
	images bool
	header []string
	row    func(T) []string
	panel  func(c *client.Client, opts content.PanelOptions) adminPanel[T, In]

	// editFlags registers collection-specific flags on create and update and
	// returns the edit applied to the form after the JSON fields.
	editFlags func(c *cobra.Command) func(*In) error
}

type adminFlags struct {
	apiURL string
	apiKey string
}

func newAdminCmd(a *app) *cobra.Command {
	f := &adminFlags{}

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage content on a running server",
		Long: `Admin talks to the REST API of a running server. The server address and
admin key come from STUDIO_API_URL and STUDIO_API_KEY or the flags below.`,
	}
	cmd.PersistentFlags().StringVar(&f.apiURL, "api-url", "", "server base URL (overrides STUDIO_API_URL)")
	cmd.PersistentFlags().StringVar(&f.apiKey, "api-key", "", "admin API key (overrides STUDIO_API_KEY)")

	cmd.AddCommand(
		collectionCommand(a, f, collectionCmd[model.PortfolioItem, model.PortfolioInput]{
			name:   model.CollectionPortfolio,
			label:  "portfolio items",
			images: true,
			header: []string{"ID", "TITLE", "CATEGORY", "FEATURED", "ORDER"},
			row: func(p model.PortfolioItem) []string {
				return []string{p.ID, p.Title, categoryLabel(p.Category), strconv.FormatBool(p.Featured()), order(p.DisplayOrder)}
			},
			panel: func(c *client.Client, opts content.PanelOptions) adminPanel[model.PortfolioItem, model.PortfolioInput] {
				return content.NewPortfolioPanel(c.Portfolio(), c, opts)
			},
		}),
		collectionCommand(a, f, collectionCmd[model.Service, model.ServiceInput]{
			name:   model.CollectionServices,
			label:  "services",
			header: []string{"ID", "TITLE", "ICON", "ACTIVE", "ORDER"},
			row: func(s model.Service) []string {
				return []string{s.ID, s.Title, deref(s.Icon), strconv.FormatBool(s.Active()), order(s.DisplayOrder)}
			},
			panel: func(c *client.Client, opts content.PanelOptions) adminPanel[model.Service, model.ServiceInput] {
				return content.NewServicesPanel(c.Services(), opts)
			},
			editFlags: featureFlags,
		}),
		collectionCommand(a, f, collectionCmd[model.Testimonial, model.TestimonialInput]{
			name:   model.CollectionTestimonials,
			label:  "testimonials",
			header: []string{"ID", "CLIENT", "RATING", "FEATURED", "ORDER"},
			row: func(t model.Testimonial) []string {
				return []string{t.ID, t.ClientName, strconv.Itoa(t.Rating), strconv.FormatBool(t.Featured()), order(t.DisplayOrder)}
			},
			panel: func(c *client.Client, opts content.PanelOptions) adminPanel[model.Testimonial, model.TestimonialInput] {
				return content.NewTestimonialsPanel(c.Testimonials(), opts)
			},
		}),
		newAdminSeedCmd(a, f),
		newAdminUploadCmd(a, f),
		newAdminEventsCmd(a, f),
		newAdminStatusCmd(a, f),
	)
	return cmd
}

func (f *adminFlags) client(a *app) *client.Client {
	url, key := a.cfg.APIURL, a.cfg.APIKey
	if f.apiURL != "" {
		url = strings.TrimRight(f.apiURL, "/")
	}
	if f.apiKey != "" {
		key = f.apiKey
	}
	return client.New(url, key)
}

func panelOptions(cmd *cobra.Command, a *app, yes bool) content.PanelOptions {
	stderr := cmd.ErrOrStderr()
	opts := content.PanelOptions{
		Notifier: content.NotifierFunc(func(n content.Notice) {
			_, _ = fmt.Fprintf(stderr, "%s: %s\n", n.Title, n.Message)
		}),
		Logger: a.logger,
	}
	if yes {
		opts.Confirmer = content.ConfirmFunc(func(string) bool { return true })
	} else {
		opts.Confirmer = promptConfirmer(cmd.InOrStdin(), stderr)
	}
	return opts
}

// promptConfirmer asks on out and accepts "y" or "yes" read from in.
func promptConfirmer(in io.Reader, out io.Writer) content.Confirmer {
	reader := bufio.NewReader(in)
	return content.ConfirmFunc(func(prompt string) bool {
		_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}

func collectionCommand[T model.Entity, In content.Input](a *app, f *adminFlags, spec collectionCmd[T, In]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.name,
		Short: "Manage " + spec.label,
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List all " + spec.label + ", hidden ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := spec.panel(f.client(a), panelOptions(cmd, a, false))
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), p.Items())
			}
			return writeTable(cmd.OutOrStdout(), spec.header, p.Items(), spec.row)
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	var (
		data  string
		file  string
		image string
	)
	addInputFlags := func(c *cobra.Command) func(*In) error {
		c.Flags().StringVar(&data, "data", "", "record fields as a JSON object")
		c.Flags().StringVar(&file, "file", "", "read record fields from a JSON file (- for stdin)")
		if spec.images {
			c.Flags().StringVar(&image, "image", "", "upload an image file and use it as image_url")
		}
		if spec.editFlags != nil {
			return spec.editFlags(c)
		}
		return nil
	}

	var createEdit, updateEdit func(*In) error
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a record from JSON fields merged over the form defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := readFields(cmd.InOrStdin(), data, file)
			if err != nil {
				return err
			}
			p := spec.panel(f.client(a), panelOptions(cmd, a, false))
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			p.OpenNew()
			return submitForm(cmd, p, fields, createEdit, image)
		},
	}
	createEdit = addInputFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a record; omitted fields keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := readFields(cmd.InOrStdin(), data, file)
			if err != nil {
				return err
			}
			p := spec.panel(f.client(a), panelOptions(cmd, a, false))
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			if err := p.OpenEdit(args[0]); err != nil {
				return err
			}
			return submitForm(cmd, p, fields, updateEdit, image)
		},
	}
	updateEdit = addInputFlags(update)

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := spec.panel(f.client(a), panelOptions(cmd, a, yes))
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			deleted, err := p.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
			}
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, create, update, del)
	return cmd
}

// submitForm merges fields into the open form, applies edit, attaches image
// when given and submits. Field errors are printed one per line.
func submitForm[T model.Entity, In content.Input](cmd *cobra.Command, p adminPanel[T, In], fields []byte, edit func(*In) error, image string) error {
	ctx := cmd.Context()

	if len(fields) > 0 {
		var decodeErr error
		if err := p.Edit(func(in *In) {
			dec := json.NewDecoder(bytes.NewReader(fields))
			dec.DisallowUnknownFields()
			decodeErr = dec.Decode(in)
		}); err != nil {
			return err
		}
		if decodeErr != nil {
			return fmt.Errorf("invalid fields: %w", decodeErr)
		}
	}

	if edit != nil {
		var editErr error
		if err := p.Edit(func(in *In) { editErr = edit(in) }); err != nil {
			return err
		}
		if editErr != nil {
			return editErr
		}
	}

	if image != "" {
		attacher, ok := p.(imageAttacher)
		if !ok {
			return errors.New("this collection has no image field")
		}
		fh, err := os.Open(image)
		if err != nil {
			return err
		}
		defer func() { _ = fh.Close() }()
		if _, err := attacher.AttachImage(ctx, filepath.Base(image), fh); err != nil {
			return err
		}
	}

	saved, err := p.Submit(ctx)
	if err != nil {
		printFieldErrors(cmd.ErrOrStderr(), p.Form().FieldErrors)
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), saved.EntityID())
	return nil
}

// featureFlags adds --feature and --remove-feature to a services command.
// Removals run before additions.
func featureFlags(c *cobra.Command) func(*model.ServiceInput) error {
	var add, remove []string
	c.Flags().StringArrayVar(&add, "feature", nil, "append a feature (repeatable)")
	c.Flags().StringArrayVar(&remove, "remove-feature", nil, "remove a feature by its text (repeatable)")

	return func(in *model.ServiceInput) error {
		for _, f := range remove {
			i := slices.Index(in.Features, strings.TrimSpace(f))
			if i < 0 {
				return fmt.Errorf("feature %q not found", f)
			}
			in.RemoveFeature(i)
		}
		for _, f := range add {
			if !in.AddFeature(f) {
				return errors.New("--feature must not be empty")
			}
		}
		return nil
	}
}

func readFields(stdin io.Reader, data, file string) ([]byte, error) {
	switch {
	case data != "" && file != "":
		return nil, errors.New("--data and --file are mutually exclusive")
	case data != "":
		return []byte(data), nil
	case file == "-":
		return io.ReadAll(stdin)
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, nil
	}
}

func printFieldErrors(w io.Writer, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", name, fields[name])
	}
}

func writeTable[T any](w io.Writer, header []string, items []T, row func(T) []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, it := range items {
		_, _ = fmt.Fprintln(tw, strings.Join(row(it), "\t"))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func categoryLabel(c *string) string {
	if c == nil || *c == "" {
		return "-"
	}
	return model.Category(*c).Label()
}

func order(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}

func newAdminSeedCmd(a *app, f *adminFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed empty collections on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := f.client(a).Seed(cmd.Context())
			if err != nil {
				return err
			}
			printSeedResults(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newAdminUploadCmd(a *app, f *adminFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = fh.Close() }()

			up, err := f.client(a).Upload(cmd.Context(), filepath.Base(args[0]), fh)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), up.URL)
			return nil
		},
	}
}

func newAdminEventsCmd(a *app, f *adminFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the most recent event log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := f.client(a).Events(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), []string{"TIME", "LEVEL", "CATEGORY", "MESSAGE"}, events, func(e model.Event) []string {
				return []string{e.CreatedAt.Format("2006-01-02 15:04:05"), e.Level, e.Category, e.Message}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	return cmd
}

func newAdminStatusCmd(a *app, f *adminFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and collection sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.client(a).Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "status:   %s\ndatabase: %s\nversion:  %s\n", s.Status, s.Database, s.Build.String())
			for _, name := range []string{model.CollectionPortfolio, model.CollectionServices, model.CollectionTestimonials} {
				_, _ = fmt.Fprintf(out, "%-9s %d\n", name+":", s.Counts[name])
			}
			return nil
		},
	}
}
