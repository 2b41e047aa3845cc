package commands

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/splitbook/splitbook/internal/bookfile"
	"github.com/splitbook/splitbook/internal/calculator"
	"github.com/splitbook/splitbook/internal/ledger"
	"github.com/splitbook/splitbook/internal/models"
)

const helpText = `Commands:
  add-user <name>
  add-expense equal <payer> <amount> <p1> <p2> ...
  add-expense exact <payer> <amount> <name1:share1> <name2:share2> ...
  balances
  settle
  save <file>
  load <file>
  help
  exit
`

// runPrompt runs the interactive ledger loop until exit or EOF. All
// command errors are reported to the user and the loop continues; the
// book is never left in a partially mutated state.
func runPrompt(in io.Reader, out io.Writer, book *ledger.Book) error {
	fmt.Fprintln(out, "splitbook. Type 'help' for commands.")

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		if cmd == "exit" || cmd == "quit" {
			break
		}
		dispatch(out, book, cmd, strings.TrimSpace(rest))
	}
	fmt.Fprintln(out, "Bye!")
	return sc.Err()
}

func dispatch(out io.Writer, book *ledger.Book, cmd, rest string) {
	switch cmd {
	case "help":
		fmt.Fprint(out, helpText)
	case "add-user":
		if rest == "" {
			fmt.Fprintln(out, "Usage: add-user <name>")
			return
		}
		book.AddMember(rest)
		fmt.Fprintf(out, "Added user: %s\n", rest)
	case "add-expense":
		addExpense(out, book, strings.Fields(rest))
	case "balances":
		printBalances(out, calculator.NetBalances(book.Members(), book.Expenses()), book.Members())
	case "settle":
		printTransactions(out, calculator.Settle(calculator.NetBalances(book.Members(), book.Expenses())))
	case "save":
		if rest == "" {
			fmt.Fprintln(out, "Usage: save <file>")
			return
		}
		if err := bookfile.Save(rest, book); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Saved to %s\n", rest)
	case "load":
		if rest == "" {
			fmt.Fprintln(out, "Usage: load <file>")
			return
		}
		if err := bookfile.Load(rest, book); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Loaded from %s\n", rest)
	default:
		fmt.Fprintln(out, "Unknown command. Type 'help'.")
	}
}

func addExpense(out io.Writer, book *ledger.Book, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(out, "Usage: add-expense equal|exact ...  (see 'help')")
		return
	}
	split, payer := args[0], args[1]
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fmt.Fprintf(out, "Error: bad amount %q\n", args[2])
		return
	}

	switch split {
	case "equal":
		if _, err := book.RecordEqual(payer, amount, args[3:]); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(out, "Added equal expense.")
	case "exact":
		if _, err := book.RecordExact(payer, amount, args[3:]); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(out, "Added exact expense.")
	default:
		fmt.Fprintln(out, "Usage: add-expense equal|exact ...  (see 'help')")
	}
}

func printBalances(out io.Writer, net map[string]float64, members []string) {
	fmt.Fprintln(out, "Balances (+ receive, - pay)")
	for _, name := range members {
		amt := net[name]
		if math.Abs(amt) < calculator.Epsilon {
			amt = 0
		}
		fmt.Fprintf(out, "  %-12s : %.2f\n", name, amt)
	}
}

func printTransactions(out io.Writer, txns []models.Transaction) {
	if len(txns) == 0 {
		fmt.Fprintln(out, "Everyone is settled.")
		return
	}
	fmt.Fprintln(out, "Settlement transactions:")
	for _, t := range txns {
		fmt.Fprintf(out, "  %s -> %s : %.2f\n", t.From, t.To, t.Amount)
	}
}
