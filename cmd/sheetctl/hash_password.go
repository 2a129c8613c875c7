package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/geocoder89/lentpath/internal/security"
)

var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password and print its bcrypt hash for the Users sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				plain string
				err   error
			)

			fd := int(os.Stdin.Fd())
			if isTerminal(fd) {
				plain, err = promptTwice(cmd, fd)
			} else {
				plain, err = readLine(cmd)
			}
			if err != nil {
				return err
			}

			if plain == "" {
				return errors.New("empty password")
			}

			hash, err := security.HashPassword(plain)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func promptTwice(cmd *cobra.Command, fd int) (string, error) {
	errOut := cmd.ErrOrStderr()

	fmt.Fprint(errOut, "Password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(errOut, "Confirm: ")
	second, err := readPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}

	return string(first), nil
}

// readLine takes the password from piped input, one line.
func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
