// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"cogentcore.org/mrml/module"
	"github.com/spf13/cobra"
)

func (a *app) modulesCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "modules [dir...]",
		Short: "List the available modules",
		Long: "List the built in modules and the command line modules found in the\n" +
			"configured module paths and the given directories.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, closeCache := a.factory(args...)
			defer closeCache()
			mods, failed := f.Scan(cmd.Context())
			_, mm := a.newScene()
			register(mm, mods, failed)

			list := mm.Modules()
			if search != "" {
				list = mm.Search(search)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tCATEGORY")
			for _, m := range list {
				b := m.AsBase()
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, b.Title, b.Category)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printLoadErrors(cmd, mm)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only list the modules matching the given text")
	return cmd
}

func printLoadErrors(cmd *cobra.Command, mm *module.Manager) {
	errs := mm.LoadErrors()
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to load %s: %v\n", name, errs[name])
	}
}
