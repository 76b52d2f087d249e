// gencreds はダッシュボードが読み込む認証情報ファイルを生成します。
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&generateCmd{cost: bcrypt.DefaultCost}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
