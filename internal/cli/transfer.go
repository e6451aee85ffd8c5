package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
)

func newDownloadCmd(st *state) *cobra.Command {
	f := &requestFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "download <path>",
		Short: "Download a binary response to a file",
		Long: `Download a binary response to a file.

Examples:
  tcmcctl download /tcmc/client-user/export-excel -o users.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := f.descriptor(args[0])
			if err != nil {
				return err
			}
			resp, err := st.dispatcher.Download(cmd.Context(), desc)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(resp.Body)
				return err
			}
			if err := os.WriteFile(output, resp.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %d bytes to %s\n", len(resp.Body), output)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (stdout when empty or -)")
	return cmd
}

func newUploadCmd(st *state) *cobra.Command {
	f := &requestFlags{}
	var (
		files  []string
		field  string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload files as multipart/form-data",
		Long: `Upload files as multipart/form-data. The Content-Type is always
multipart/form-data; --content-type is ignored.

Examples:
  tcmcctl upload /infra/file/upload --file report.pdf
  tcmcctl upload /infra/file/upload --file a.png --field image --form directory=avatars`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 {
				return fmt.Errorf("at least one --file is required")
			}
			desc, err := f.descriptor(args[0])
			if err != nil {
				return err
			}
			formFields, err := parsePairs(fields)
			if err != nil {
				return err
			}

			form := &httpclient.MultipartForm{Fields: formFields}
			for _, path := range files {
				fh, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}
				defer fh.Close()
				form.Files = append(form.Files, httpclient.FormFile{
					Field:  field,
					Name:   filepath.Base(path),
					Reader: fh,
				})
			}
			desc.Data = form

			resp, err := st.dispatcher.Upload(cmd.Context(), desc)
			if err != nil {
				return err
			}
			printEnvelope(cmd.OutOrStdout(), resp)
			return writeBody(cmd.OutOrStdout(), resp.Payload(), "")
		},
	}

	f.register(cmd)
	cmd.Flags().StringArrayVar(&files, "file", nil, "File to upload (repeatable)")
	cmd.Flags().StringVar(&field, "field", "file", "Form field name for the files")
	cmd.Flags().StringArrayVar(&fields, "form", nil, "Extra form field key=value (repeatable)")
	return cmd
}
