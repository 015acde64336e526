package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newShortenCmd(build buildFunc) *cobra.Command {
	var copyResult bool

	cmd := &cobra.Command{
		Use:   "shorten <url>",
		Short: "Shorten a URL and remember the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := build(cmd)
			if err != nil {
				return err
			}

			st, err := d.workflow.Submit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if st.Error != "" {
				return errors.New(st.Error)
			}

			fmt.Fprintln(cmd.OutOrStdout(), st.ShortURL)

			if copyResult {
				// Ошибка буфера обмена не делает результат неудачным.
				if err := clipboardWriteAll(st.ShortURL); err != nil {
					zap.L().Warn("Failed to copy to clipboard", zap.Error(err))
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&copyResult, "copy", "c", false, "copy the short URL to the clipboard")
	return cmd
}

func newLastCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Print the last shortened URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := build(cmd)
			if err != nil {
				return err
			}

			st := d.workflow.State()
			if st.ShortURL == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No shortened URL yet.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", st.URL, st.ShortURL)
			return nil
		},
	}
}

func newClearCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the last result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := build(cmd)
			if err != nil {
				return err
			}

			if _, err := d.workflow.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared.")
			return nil
		},
	}
}
