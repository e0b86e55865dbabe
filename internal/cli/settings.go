package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"koralai-host/internal/adapters/settings"
	"koralai-host/internal/domain/model"

	"github.com/spf13/cobra"
)

func newSettingsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or change the persisted settings document",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the settings document (creates it on first run)",
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := g.load(cmd)
				if err != nil {
					return err
				}
				doc := settings.NewStore(e.cfg.SettingsFile, e.cfg.DefaultHomepage, e.log).Load()

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "    ")
				enc.SetEscapeHTML(false)
				return enc.Encode(doc)
			},
		},
		newSetHomepageCmd(g),
	)
	return cmd
}

func newSetHomepageCmd(g *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "set-homepage <url>",
		Short: "Save a new homepage, keeping other keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			home, err := validateHomepage(args[0])
			if err != nil {
				return err
			}

			store := settings.NewStore(e.cfg.SettingsFile, e.cfg.DefaultHomepage, e.log)
			// 这里不用 Load：损坏的文件会被当成空文档，保存时就把原内容整体覆盖掉了
			doc, err := store.Read()
			switch {
			case err == nil:
			case errors.Is(err, os.ErrNotExist):
				doc = model.Settings{}
			case force:
				e.log.Warn().Err(err).Str("path", store.Path()).Msg("replacing unreadable settings file")
				doc = model.Settings{}
			default:
				return fmt.Errorf("settings file %s could not be loaded: %w (use --force to replace it)", store.Path(), err)
			}

			doc[model.KeyHomepage] = home
			// 交互式修改时保存失败需要让用户知道
			if err := store.Save(doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "homepage saved: %s\n", home)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite a settings file that cannot be parsed")
	return cmd
}

func validateHomepage(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("homepage is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid homepage: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("invalid homepage %q: scheme is required", raw)
	}
	return raw, nil
}
