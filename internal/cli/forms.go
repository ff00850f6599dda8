package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/internal/form"
	"github.com/spf13/cobra"
)

// fail reports err through the formatter and maps it to an exit code
func (s *session) fail(err error) error {
	code := 0
	var pe *form.PersistenceError
	var nf *form.NoSuchFileError
	switch {
	case errors.As(err, &pe):
		code = pe.Code
	case errors.As(err, &nf):
		code = nf.Code
	}
	s.out.Error(code, err.Error())
	if errors.Is(err, common.ErrForbidden) || errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrConflict) {
		return WrapExitError(ExitFailure, "operation refused", err)
	}
	return WrapExitError(ExitCommandError, "operation failed", err)
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List every form definition in storages and bundles",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				forms, err := s.forms.ListForms(cmd.Context())
				if err != nil {
					return s.fail(err)
				}
				return s.out.Success(forms, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "IDENTIFIER\tNAME\tPERSISTENCE IDENTIFIER\tLOCATION\tFLAGS")
					for _, f := range forms {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Identifier, f.Name, f.PersistenceIdentifier, f.Location, summaryFlags(f))
					}
					_ = tw.Flush()
				})
			})
		},
	}
}

func summaryFlags(f domain.FormSummary) string {
	flags := ""
	add := func(on bool, flag string) {
		if !on {
			return
		}
		if flags != "" {
			flags += ","
		}
		flags += flag
	}
	add(f.ReadOnly, "readonly")
	add(f.Removable, "removable")
	add(f.DuplicateIdentifier, "duplicate")
	add(f.Invalid, "invalid")
	if flags == "" {
		return "-"
	}
	return flags
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <persistence-identifier>",
		Short:         "Print a form definition with overrides applied",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				def, err := s.forms.Load(cmd.Context(), args[0])
				if err != nil {
					return s.fail(err)
				}
				data, err := form.NewYAMLSource().Encode(def)
				if err != nil {
					return s.fail(err)
				}
				return s.out.Success(def, func(w io.Writer) { _, _ = w.Write(data) })
			})
		},
	}
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save <persistence-identifier>",
		Short: "Save a YAML form definition (from --file or stdin)",
		Long: `Save a form definition to a storage ("1:/forms/x.form.yaml") or bundle
("EXT:site/forms/x.form.yaml") location. The document is read from --file,
or from stdin when --file is "-" or empty.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if file == "" || file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "read definition", err)
			}
			def, err := form.NewYAMLSource().Decode(data)
			if err != nil {
				return WrapExitError(ExitCommandError, "parse definition", err)
			}

			return withSession(rootOpts, cmd, func(s *session) error {
				if err := s.forms.Save(cmd.Context(), args[0], def); err != nil {
					return s.fail(err)
				}
				return s.out.Success(map[string]string{"persistenceIdentifier": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "saved %s\n", args[0])
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "definition file (default stdin)")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <persistence-identifier>",
		Short:         "Delete a form definition",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				if err := s.forms.Delete(cmd.Context(), args[0]); err != nil {
					return s.fail(err)
				}
				return s.out.Success(map[string]string{"persistenceIdentifier": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "deleted %s\n", args[0])
				})
			})
		},
	}
}

// NewUniqueCommand creates the unique command.
func NewUniqueCommand(rootOpts *RootOptions) *cobra.Command {
	var savePath string
	cmd := &cobra.Command{
		Use:           "unique <form-identifier>",
		Short:         "Suggest a free form identifier, or a free persistence identifier with --save-path",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				var (
					result string
					err    error
				)
				if savePath != "" {
					if !s.forms.IsAllowedPersistencePath(cmd.Context(), savePath) {
						return s.fail(&form.PersistenceError{Identifier: savePath,
							Message: fmt.Sprintf("save path %q is not allowed", savePath)})
					}
					result, err = s.forms.UniquePersistenceIdentifier(cmd.Context(), args[0], savePath)
				} else {
					result, err = s.forms.UniqueIdentifier(cmd.Context(), args[0])
				}
				if err != nil {
					return s.fail(err)
				}
				return s.out.Success(map[string]string{"identifier": result}, func(w io.Writer) {
					fmt.Fprintln(w, result)
				})
			})
		},
	}
	cmd.Flags().StringVar(&savePath, "save-path", "", "folder to search for a free <identifier>.form.yaml")
	return cmd
}

// NewAllowedCommand creates the allowed command.
func NewAllowedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "allowed <path>",
		Short:         "Report whether a folder or file is an allowed persistence path",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				allowed := s.forms.IsAllowedPersistencePath(cmd.Context(), args[0])
				if err := s.out.Success(map[string]bool{"allowed": allowed}, func(w io.Writer) {
					fmt.Fprintln(w, allowed)
				}); err != nil {
					return err
				}
				if !allowed {
					return NewExitError(ExitFailure, "path not allowed")
				}
				return nil
			})
		},
	}
}

// NewFoldersCommand creates the folders command.
func NewFoldersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "folders",
		Short:         "List accessible form storage folders and extension folders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				storageFolders := s.forms.AccessibleFormStorageFolders(cmd.Context())
				extensionFolders := s.forms.AccessibleExtensionFolders()

				mounts := make([]string, 0, len(storageFolders))
				for _, f := range storageFolders {
					mounts = append(mounts, f.Mount)
				}
				paths := make([]string, 0, len(extensionFolders))
				for _, f := range extensionFolders {
					paths = append(paths, f.Path)
				}

				data := map[string][]string{"storage": mounts, "extension": paths}
				return s.out.Success(data, func(w io.Writer) {
					for _, m := range mounts {
						fmt.Fprintf(w, "storage\t%s\n", m)
					}
					for _, p := range paths {
						fmt.Fprintf(w, "extension\t%s\n", p)
					}
				})
			})
		},
	}
}
