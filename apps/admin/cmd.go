package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/kazi/core/lecturer"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB
	lectSvc    *lecturer.Service
	validate   *validator.Validate
	translator ut.Translator
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addlecturer -email EMAIL - create a lecturer account; the password is prompted next")
	fmt.Println("  resetpassword -email EMAIL - reset a lecturer's password; the password is prompted next")
	fmt.Println("  migrate up|down|status - apply database migrations")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addLecturerCmd := flag.NewFlagSet("addlecturer", flag.ExitOnError)
	addLecturerEmail := addLecturerCmd.String("email", "", "The lecturer's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The lecturer's email. The password will be prompted next.")

	switch args[1] {
	case "addlecturer":
		if err := addLecturerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addLecturerEmail == "" {
			addLecturerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addLecturerCmd)
		if err != nil {
			return err
		}
		return cli.addLecturer(*addLecturerEmail, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(cmd *flag.FlagSet) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
