// Copyright (C) 2026  The mailroom authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package shell is an interactive operator console for the pipeline.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/transport"
)

// Shell is an interactive shell to manage transport profiles, templates,
// triggers and the envelope queue.
type Shell struct {
	conn     database.Conn
	sender   transport.Sender
	commands cmdSlice

	smtpConfigDao database.SMTPConfigDao
	templateDao   database.TemplateDao
	triggerDao    database.TriggerDao
	envelopeDao   database.EnvelopeDao
	logDao        database.LogDao
}

// NewShell creates a new shell instance.
func NewShell(
	conn database.Conn,
	sender transport.Sender,
	smtpConfigDao database.SMTPConfigDao,
	templateDao database.TemplateDao,
	triggerDao database.TriggerDao,
	envelopeDao database.EnvelopeDao,
	logDao database.LogDao,
) *Shell {
	return &Shell{
		conn:   conn,
		sender: sender,

		smtpConfigDao: smtpConfigDao,
		templateDao:   templateDao,
		triggerDao:    triggerDao,
		envelopeDao:   envelopeDao,
		logDao:        logDao,

		commands: cmdSlice{
			{
				name: "config",
				help: "Manage smtp transport profiles.",
				children: cmdSlice{
					{
						name:   "list",
						help:   "List all transport profiles.",
						action: listConfigs,
					},
					{
						name:   "add",
						help:   "Add a new transport profile.",
						action: addConfig,
					},
					{
						name:   "default",
						help:   "Choose the default transport profile.",
						action: defaultConfig,
					},
				},
			},
			{
				name: "template",
				help: "Inspect mail templates.",
				children: cmdSlice{
					{
						name:   "list",
						help:   "List all templates.",
						action: listTemplates,
					},
					{
						name:   "validate",
						help:   "Check a template for undeclared placeholders.",
						action: validateTemplate,
					},
				},
			},
			{
				name: "trigger",
				help: "Inspect event triggers.",
				children: cmdSlice{
					{
						name:   "list",
						help:   "List all triggers.",
						action: listTriggers,
					},
				},
			},
			{
				name: "queue",
				help: "Inspect and manage the envelope queue.",
				children: cmdSlice{
					{
						name:   "stats",
						help:   "Show envelope counts per status.",
						action: queueStats,
					},
					{
						name:   "retry",
						help:   "Requeue a failed envelope immediately.",
						action: retryEnvelope,
					},
					{
						name:   "cancel",
						help:   "Withdraw a pending envelope.",
						action: cancelEnvelope,
					},
					{
						name:   "history",
						help:   "Show recent delivery attempts.",
						action: queueHistory,
					},
				},
			},
			{
				name: "mail",
				help: "Send mails by hand.",
				children: cmdSlice{
					{
						name:   "test",
						help:   "Send a test mail through a transport profile.",
						action: sendTestMail,
					},
				},
			},
		},
	}
}

// Run starts the shell read loop.
func (s *Shell) Run() error {
	config := readline.Config{
		AutoComplete: readline.NewPrefixCompleter(s.commands.buildCompleters()...),
	}

	rl, err := readline.NewEx(&config)
	if err != nil {
		return err
	}

	defer rl.Close()

	for {
		rl.SetPrompt(">>> ")

		line, err := rl.Readline()
		if err != nil {
			if isUnimportantError(err) {
				return nil
			}

			return err
		}

		args := strings.Fields(line)
		if err := s.handleCommand(rl, args); err != nil && !isUnimportantError(err) {
			fmt.Printf("\nERROR:\n  %s\n\n", err)
		}
	}
}

func isUnimportantError(err error) bool {
	return errors.Is(err, fuzzyfinder.ErrAbort) ||
		errors.Is(err, readline.ErrInterrupt) ||
		errors.Is(err, io.EOF)
}

type cmdFunc func(*cmdContext) error

type cmdSlice []cmdDef

func (s cmdSlice) lookup(args []string) (cmdDef, bool) {
	if len(s) > 0 && len(args) > 0 {
		var (
			head = args[0]
			tail = args[1:]
		)

		for _, cmd := range s {
			if head == cmd.name {
				if len(tail) > 0 {
					return cmd.children.lookup(tail)
				}

				return cmd, true
			}
		}
	}

	return cmdDef{}, false
}

func (s cmdSlice) buildCompleters() []readline.PrefixCompleterInterface {
	var completers []readline.PrefixCompleterInterface

	for _, cmd := range s {
		cmdCompleter := readline.PcItem(cmd.name, cmd.children.buildCompleters()...)
		completers = append(completers, cmdCompleter)
	}

	return completers
}

type cmdDef struct {
	name     string
	help     string
	action   cmdFunc
	children cmdSlice
}

type cmdContext struct {
	context.Context
	rl        *readline.Instance
	tx        database.Tx
	infoLines []string

	sender transport.Sender

	smtpConfigDao database.SMTPConfigDao
	templateDao   database.TemplateDao
	triggerDao    database.TriggerDao
	envelopeDao   database.EnvelopeDao
	logDao        database.LogDao
}

func (c *cmdContext) info(format string, v ...interface{}) {
	text := fmt.Sprintf(format, v...)
	c.infoLines = append(c.infoLines, text)
}

func (c *cmdContext) ask(prompt string) (string, error) {
	return c.askWithDefault(prompt, "")
}

func (c *cmdContext) askWithDefault(prompt, defaultValue string) (string, error) {
	c.rl.HistoryDisable()
	defer c.rl.HistoryEnable()

	c.rl.SetPrompt(prompt)

	for {
		answer, err := c.rl.ReadlineWithDefault(defaultValue)
		if err != nil || len(answer) > 0 {
			return answer, err
		}
	}
}

func (c *cmdContext) askBool(prompt string, defaultValue bool) (bool, error) {
	suggestion := "no"
	if defaultValue {
		suggestion = "yes"
	}

	for {
		answer, err := c.askWithDefault(prompt+" [yes/no]: ", suggestion)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (c *cmdContext) password(prompt string) ([]byte, error) {
	c.rl.HistoryDisable()
	defer c.rl.HistoryEnable()

	for {
		answer, err := c.rl.ReadPassword(prompt)
		if err != nil || len(answer) > 0 {
			return answer, err
		}
	}
}

func (s *Shell) handleCommand(rl *readline.Instance, args []string) error {
	cmd, ok := s.commands.lookup(args)
	if ok {
		if cmd.action != nil {
			return s.executeCommand(rl, cmd)
		}

		printCommandHelp(cmd)
	} else {
		printCommandUnknown(s.commands, args)
	}

	return nil
}

func (s *Shell) executeCommand(rl *readline.Instance, cmd cmdDef) error {
	ctx := context.Background()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}

	cmdCtx := cmdContext{
		Context: ctx,
		rl:      rl,
		tx:      tx,

		sender: s.sender,

		smtpConfigDao: s.smtpConfigDao,
		templateDao:   s.templateDao,
		triggerDao:    s.triggerDao,
		envelopeDao:   s.envelopeDao,
		logDao:        s.logDao,
	}

	if err := cmd.action(&cmdCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if len(cmdCtx.infoLines) > 0 {
		fmt.Println()

		for _, infoLine := range cmdCtx.infoLines {
			fmt.Print("  ")
			fmt.Println(infoLine)
		}

		fmt.Println()
	}

	return nil
}

func printCommandUnknown(cmds cmdSlice, args []string) {
	fmt.Printf("\n  Unknown command %q\n", strings.Join(args, " "))
	printCommandUsage(cmds)
}

func printCommandHelp(cmd cmdDef) {
	fmt.Printf("\n  %s\n", cmd.help)
	printCommandUsage(cmd.children)
}

func printCommandUsage(cmds cmdSlice) {
	if len(cmds) > 0 {
		fmt.Println()
		fmt.Println("Commands:")

		for _, cmd := range cmds {
			fmt.Printf("  %-10s  %s\n", cmd.name, cmd.help)
		}
	}

	fmt.Println()
}
