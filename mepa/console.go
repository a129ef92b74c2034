package mepa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Console is the machine I/O device used by IMPR and LEIT.
type Console interface {
	Print(v int) error
	Read() (int, error)
}

// IOConsole reads whitespace-separated integers from a reader and prints one integer per line.
type IOConsole struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewIOConsole creates console, in may be nil for output-only programs.
func NewIOConsole(in io.Reader, out io.Writer) *IOConsole {
	c := &IOConsole{out: out}
	if in != nil {
		c.in = bufio.NewScanner(in)
		c.in.Split(bufio.ScanWords)
	}
	return c
}

func (c *IOConsole) Print(v int) error {
	_, e := fmt.Fprintln(c.out, v)
	return e
}

func (c *IOConsole) Read() (int, error) {
	if c.in == nil {
		return 0, io.EOF
	}
	if !c.in.Scan() {
		if e := c.in.Err(); e != nil {
			return 0, e
		}
		return 0, io.EOF
	}
	return strconv.Atoi(c.in.Text())
}

// Tape is an in-memory console: Read consumes Input, Print appends to Output.
type Tape struct {
	Input  []int
	Output []int
}

func (t *Tape) Print(v int) error {
	t.Output = append(t.Output, v)
	return nil
}

func (t *Tape) Read() (int, error) {
	if len(t.Input) == 0 {
		return 0, io.EOF
	}
	v := t.Input[0]
	t.Input = t.Input[1:]
	return v, nil
}
