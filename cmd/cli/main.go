package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	key := os.Getenv("ADMIN_API_KEY")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Which task? [cycle/rollup]: ")
	task, _ := reader.ReadString('\n')
	task = strings.TrimSpace(task)

	var path string
	switch task {
	case "cycle", "":
		path = "/tasks/check-cycle"
		fmt.Print("Minute override (empty for wall clock): ")
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 || n > 59 {
				fmt.Println("Minute must be 0-59.")
				return
			}
			path += "?minute=" + raw
		}
	case "rollup":
		path = "/tasks/daily-rollup"
	default:
		fmt.Println("Unknown task:", task)
		return
	}

	req, _ := http.NewRequest(http.MethodPost, api+path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("Error contacting API:", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s: %s\n", resp.Status, strings.TrimSpace(string(body)))
}
