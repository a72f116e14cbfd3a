package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/allisson/registry-auth/internal/digest"
)

// DigestInput selects what RunDigest hashes. Text wins when HasText is set, then
// File; otherwise the command reads its IOTuple reader.
type DigestInput struct {
	Text    string
	HasText bool
	File    string
}

type digestOutput struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// RunDigest prints the digest of the selected input. A nil prefix uses
// "<algorithm>:"; an empty prefix prints the bare hex digest.
func RunDigest(
	ctx context.Context,
	logger *slog.Logger,
	io IOTuple,
	input DigestInput,
	algorithm string,
	prefix *string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if input.HasText && input.File != "" {
		return fmt.Errorf("--text and --file are mutually exclusive")
	}

	digester, err := digest.ForAlgorithm(algorithm)
	if err != nil {
		return err
	}
	if algorithm == "" {
		algorithm = digest.SHA256Algorithm
	}

	if prefix != nil {
		digester = digester.WithPrefix(*prefix)
	}

	reader, closeReader, err := openDigestInput(io, input)
	if err != nil {
		return err
	}
	defer closeReader()

	result, err := computeDigest(ctx, reader, digester, algorithm)
	if err != nil {
		return err
	}

	logger.Debug("digest computed", slog.String("algorithm", algorithm))

	if format == "json" {
		return writeJSON(io.Writer, digestOutput{Algorithm: algorithm, Digest: result})
	}
	_, _ = fmt.Fprintln(io.Writer, result)
	return nil
}

func openDigestInput(tuple IOTuple, input DigestInput) (io.Reader, func(), error) {
	switch {
	case input.HasText:
		return strings.NewReader(input.Text), func() {}, nil
	case input.File != "":
		file, err := os.Open(input.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open input file: %w", err)
		}
		return file, func() { _ = file.Close() }, nil
	default:
		return tuple.Reader, func() {}, nil
	}
}

// computeDigest streams SHA-256 input; other algorithms hash the whole input at once.
func computeDigest(ctx context.Context, r io.Reader, digester *digest.Digester, algorithm string) (string, error) {
	if algorithm == digest.SHA256Algorithm {
		return digest.ComputeReader(ctx, r, digester.Prefix())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read digest input: %w", err)
	}
	return digester.Compute(data), nil
}
