package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kvlist-go/internal/session"
	"kvlist-go/internal/value"

	"github.com/charmbracelet/lipgloss"
)

const (
	choicePrintKeys = iota + 1
	choicePrintValues
	choiceInsert
	choiceSave
	choiceRestore
	choiceExit
	choiceSaveSnapshot
	choiceRestoreSnapshot
	choiceListSnapshots
)

var menuItems = []string{
	"Print Keys",
	"Print Values",
	"Insert KV Pair",
	"Save",
	"Restore",
	"Exit",
	"Save Snapshot",
	"Restore Snapshot",
	"List Snapshots",
}

// Menu is the interactive front end over a session
type Menu struct {
	in   *bufio.Reader
	out  io.Writer
	sess *session.Session

	titleStyle lipgloss.Style
	errorStyle lipgloss.Style
	okStyle    lipgloss.Style
}

func NewMenu(in io.Reader, out io.Writer, sess *session.Session) *Menu {
	renderer := lipgloss.NewRenderer(out)
	return &Menu{
		in:         bufio.NewReader(in),
		out:        out,
		sess:       sess,
		titleStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		errorStyle: renderer.NewStyle().Foreground(lipgloss.Color("203")),
		okStyle:    renderer.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// Run shows the menu until the user exits or the input ends. Only a
// failure to read the input is returned; operation errors are printed.
func (m *Menu) Run() error {
	for {
		m.printMenu()

		line, err := m.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.println("")
				m.println("Exiting...")
				return nil
			}
			return err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			choice = 0
		}

		if choice == choiceExit {
			m.println("Exiting...")
			return nil
		}
		if err := m.dispatch(choice); err != nil {
			if errors.Is(err, io.EOF) {
				m.println("")
				m.println("Exiting...")
				return nil
			}
			m.printError(err)
		}
	}
}

func (m *Menu) dispatch(choice int) error {
	if choice < 1 || choice > len(menuItems) {
		m.println("Invalid choice, please try again.")
		return nil
	}
	m.println(menuItems[choice-1] + " selected.")

	switch choice {
	case choicePrintKeys:
		m.printBlobs(true)
	case choicePrintValues:
		m.printBlobs(false)
	case choiceInsert:
		return m.insert()
	case choiceSave:
		path, err := m.prompt("Enter the filename to save: ")
		if err != nil {
			return err
		}
		if err := m.sess.Save(path); err != nil {
			return err
		}
		m.printOK("File saved successfully.")
	case choiceRestore:
		path, err := m.prompt("Enter the filename to restore: ")
		if err != nil {
			return err
		}
		if err := m.sess.Restore(path); err != nil {
			return err
		}
		m.printOK(fmt.Sprintf("Restored %d entries.", m.sess.Len()))
	case choiceSaveSnapshot:
		name, err := m.prompt("Snapshot name (empty to generate): ")
		if err != nil {
			return err
		}
		name, err = m.sess.SaveSnapshot(name)
		if err != nil {
			return err
		}
		m.printOK("Snapshot saved as " + name + ".")
	case choiceRestoreSnapshot:
		name, err := m.prompt("Snapshot name: ")
		if err != nil {
			return err
		}
		if err := m.sess.RestoreSnapshot(name); err != nil {
			return err
		}
		m.printOK(fmt.Sprintf("Restored %d entries.", m.sess.Len()))
	case choiceListSnapshots:
		names, err := m.sess.Snapshots()
		if err != nil {
			return err
		}
		for _, name := range names {
			m.println(name)
		}
	}
	return nil
}

func (m *Menu) printMenu() {
	m.println("")
	m.println(m.titleStyle.Render("Menu:"))
	for i, item := range menuItems {
		m.println(fmt.Sprintf("%d) %s", i+1, item))
	}
	fmt.Fprint(m.out, "Enter your choice: ")
}

func (m *Menu) printBlobs(keys bool) {
	for _, e := range m.sess.Entries() {
		display, known, label := e.ValueDisplay, e.ValueKnown, "value"
		if keys {
			display, known, label = e.KeyDisplay, e.KeyKnown, "key"
		}
		if !known {
			m.println(fmt.Sprintf("Unknown %s type or size", label))
			continue
		}
		m.println(display)
	}
}

func (m *Menu) insert() error {
	key, err := m.readBlob("Insert key: ", "Key data size: ")
	if err != nil {
		return err
	}
	val, err := m.readBlob("Insert value: ", "Value data size: ")
	if err != nil {
		return err
	}
	return m.sess.Insert(key, val)
}

func (m *Menu) readBlob(dataPrompt, sizePrompt string) (value.Value, error) {
	text, err := m.prompt(dataPrompt)
	if err != nil {
		return value.Value{}, err
	}
	sizeText, err := m.prompt(sizePrompt)
	if err != nil {
		return value.Value{}, err
	}
	size, err := strconv.Atoi(strings.TrimSpace(sizeText))
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid size %q", strings.TrimSpace(sizeText))
	}
	return value.FromInput(text, size)
}

func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, text)
	return m.readLine()
}

// readLine returns the next line without its line ending. A final line
// without a newline is still returned; io.EOF means nothing was left.
func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printOK(s string) {
	m.println(m.okStyle.Render(s))
}

func (m *Menu) printError(err error) {
	m.println(m.errorStyle.Render("Error: " + err.Error()))
}
