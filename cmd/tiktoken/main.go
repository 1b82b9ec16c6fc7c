// Command tiktoken encodes and decodes text from the command line.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aurorabpe/tiktoken"
	_ "github.com/aurorabpe/tiktoken/ext"
)

func die(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func resolveEncoding(encodingName, model string) (*tiktoken.Encoding, error) {
	if encodingName != "" {
		return tiktoken.GetEncoding(encodingName)
	}
	if model != "" {
		return tiktoken.EncodingForModel(model)
	}
	return tiktoken.GetEncoding("cl100k_base")
}

func main() {
	var encodingName, model string
	var decode bool

	root := &cobra.Command{
		Use:   "tiktoken [file]",
		Short: "Encode or decode text with a tiktoken-compatible BPE tokenizer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := resolveEncoding(encodingName, model)
			if err != nil {
				return err
			}

			var src *os.File = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			if decode {
				return runDecode(enc, src)
			}
			return runEncode(enc, src)
		},
	}
	root.Flags().StringVarP(&encodingName, "encoding", "e", "", "encoding name (e.g. cl100k_base)")
	root.Flags().StringVarP(&model, "model", "m", "", "model name to resolve an encoding for")
	root.Flags().BoolVarP(&decode, "decode", "d", false, "decode whitespace-separated token ids instead of encoding")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered encodings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
	root.AddCommand(listCmd)

	if err := root.Execute(); err != nil {
		die(err)
	}
}

func runEncode(enc *tiktoken.Encoding, src *os.File) error {
	b, err := readAll(src)
	if err != nil {
		return err
	}
	toks, err := enc.Encode(string(b), nil, nil)
	if err != nil {
		return err
	}
	fields := make([]string, len(toks))
	for i, t := range toks {
		fields[i] = strconv.FormatUint(uint64(t), 10)
	}
	fmt.Println(strings.Join(fields, "\n"))
	return nil
}

func runDecode(enc *tiktoken.Encoding, src *os.File) error {
	b, err := readAll(src)
	if err != nil {
		return err
	}
	fields := strings.Fields(string(b))
	toks := make([]uint32, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return fmt.Errorf("parse token id %q: %w", f, err)
		}
		toks = append(toks, uint32(n))
	}
	s, err := enc.Decode(toks)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

func runList() error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Encoding", "Vocabulary size", "Max token id"})
	for _, name := range tiktoken.ListEncodingNames() {
		enc, err := tiktoken.GetEncoding(name)
		if err != nil {
			return err
		}
		table.Append([]string{
			name,
			strconv.Itoa(enc.NVocab()),
			strconv.FormatUint(uint64(enc.MaxTokenValue()), 10),
		})
	}
	table.Render()
	return nil
}

func readAll(f *os.File) ([]byte, error) {
	r := bufio.NewReader(f)
	var sb strings.Builder
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return []byte(sb.String()), nil
}
