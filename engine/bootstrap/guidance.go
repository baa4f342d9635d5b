package bootstrap

import (
	"fmt"
	"io"
)

// activationPaths builds the venv activation, pip and interpreter paths for
// the given OS. Windows environments keep their tooling under Scripts with
// backslash separators, POSIX under bin.
func activationPaths(venvPath, goos string) (activate, pip, py string) {
	if goos == "windows" {
		return venvPath + `\Scripts\activate`, venvPath + `\Scripts\pip`, venvPath + `\Scripts\python`
	}
	return venvPath + "/bin/activate", venvPath + "/bin/pip", venvPath + "/bin/python"
}

func writeActivationHelp(out io.Writer, venvPath, goos string) {
	activate, pip, py := activationPaths(venvPath, goos)
	fmt.Fprintln(out, "\nVirtual environment created.")
	if goos == "windows" {
		fmt.Fprintf(out, "Activate:\n  %s\n", activate)
	} else {
		fmt.Fprintf(out, "Activate:\n  source %s\n", activate)
	}
	fmt.Fprintf(out, "Pip:      %s\n", pip)
	fmt.Fprintf(out, "Python:   %s\n", py)
}

func writeNextSteps(out io.Writer) {
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "1. pip install -r requirements.txt")
	fmt.Fprintln(out, "2. Configure system_config.yaml")
	fmt.Fprintln(out, "3. Start developing your multi-agent system!")
}
