package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	vending "github.com/zing-dev/vending-fmt-sdk"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *vending.Config
	Client *vending.Client
}

const shellKey = "$shell"

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&DispenseCmd,
		&RowsCmd,
		&ConfigCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print results in JSON.")
}

// New creates a new shell.
func New(conf *vending.Config, client *vending.Client) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Shell:       ishell.New(),
		Config:      conf,
		Client:      client,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", conf.Line.Device))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Run processes args, or runs the interactive shell when there are none.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Fatalln("command expected")
}

// FormatResult prints a Result for display.
func FormatResult(res *vending.Result) string {
	if res.Status {
		return fmt.Sprintf("OK %s", res.Hex)
	}
	return fmt.Sprintf("FAILED %s", res.Reason)
}

var (
	// DispenseCmd dispenses one row.
	DispenseCmd = ishell.Cmd{
		Name:    "dispense",
		Aliases: []string{"d"},
		Help:    "ROW",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("usage: dispense ROW"))
				return
			}
			row, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid row %q", c.Args[0]))
				return
			}
			res := s.Client.Dispense(row)
			if s.OutputJSON {
				out, err := json.Marshal(res)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			c.Println(FormatResult(res))
		},
	}

	// RowsCmd lists configured rows.
	RowsCmd = ishell.Cmd{
		Name:    "rows",
		Aliases: []string{"list", "l"},
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			rows := s.Client.Rows()
			if len(rows) == 0 {
				c.Println("No rows configured")
				return
			}
			for _, row := range rows {
				c.Printf("%d\t%s\n", row, s.Config.Commands[row])
			}
		},
	}

	// ConfigCmd prints the line parameters.
	ConfigCmd = ishell.Cmd{
		Name: "config",
		Func: func(c *ishell.Context) {
			line := ShellFrom(c).Config.Line
			c.Printf("device=%s baudrate=%d parity=%s character_length=%d stop_bits=%d flow_control=%s driver=%s\n",
				line.Device, line.BaudRate, line.Parity, line.CharacterLength,
				line.StopBits, line.FlowControl, line.Driver)
		},
	}
)
