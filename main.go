package main

import "github.com/zhangpeiwhut/shadowscore/cmd"

func main() {
	cmd.Execute()
}
