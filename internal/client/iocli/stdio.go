package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio IO поверх потоков процесса (или потоков cobra-команды)
type Stdio struct {
	out    io.Writer
	in     io.Reader
	reader *bufio.Reader
}

// NewStdio creates IO on os.Stdin/os.Stdout.
func NewStdio() IO {
	return New(os.Stdin, os.Stdout)
}

// New creates IO on the given streams.
func New(in io.Reader, out io.Writer) IO {
	return &Stdio{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword читает пароль без эха, если вход - терминал.
// Иначе (pipe, тесты) пароль читается как обычная строка.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	f, ok := s.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(int(f.Fd()))
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}
