package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

const basePath = "/bank_app/api/v1"

// TransferRequest is the transfer payload
type TransferRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	Amount         string `json:"amount"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	StatusCounts       map[int]int
	ErrorCounts        map[string]int
	Lock               sync.Mutex
}

// participant is a logged-in account taking part in the run
type participant struct {
	Email string
	Token string
}

func main() {
	concurrency := flag.Int("c", 8, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 200, "Total number of transfers to attempt")
	emailsStr := flag.String("u", "alice@example.com,bob@example.com", "Comma-separated list of active account emails")
	passwordsStr := flag.String("p", "alice-password,bob-password", "Comma-separated passwords, in the same order as -u")
	baseURL := flag.String("url", "http://localhost:5000", "Base URL of the server")
	maxAmount := flag.Int("max", 2500, "Largest transfer in cents")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	emails := strings.Split(*emailsStr, ",")
	passwords := strings.Split(*passwordsStr, ",")
	if len(emails) < 2 || len(emails) != len(passwords) {
		fmt.Fprintln(os.Stderr, "need at least two accounts and one password per account")
		os.Exit(2)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	participants := make([]participant, 0, len(emails))
	for i, email := range emails {
		token, err := login(client, *baseURL, strings.TrimSpace(email), passwords[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "login %s: %v\n", email, err)
			os.Exit(1)
		}
		participants = append(participants, participant{Email: strings.TrimSpace(email), Token: token})
	}

	before, err := totalBalance(client, *baseURL, participants)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read balances:", err)
		os.Exit(1)
	}

	fmt.Printf("Load testing transfers across %d accounts\n", len(participants))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Total balance before: %s\n", before.StringFixed(2))

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		StatusCounts:    make(map[int]int),
		ErrorCounts:     make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, *baseURL, *delayMs, *maxAmount, participants, jobs, results)
		}()
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.record(result)
		}
	}()

	startTime := time.Now()
	wg.Wait()
	close(results)
	<-collected
	stats.TotalTime = time.Since(startTime)

	after, err := totalBalance(client, *baseURL, participants)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read balances:", err)
		os.Exit(1)
	}

	printResults(stats, before, after)
	if !before.Equal(after) {
		os.Exit(1)
	}
}

func worker(client *http.Client, baseURL string, delayMs, maxAmount int, participants []participant,
	jobs <-chan int, results chan<- TestResult) {

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		from := rand.IntN(len(participants))
		to := rand.IntN(len(participants) - 1)
		if to >= from {
			to++
		}
		amount := decimal.New(int64(rand.IntN(maxAmount)+1), -2)

		body, err := json.Marshal(TransferRequest{
			RecipientEmail: participants[to].Email,
			Amount:         amount.StringFixed(2),
		})
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}

		req, err := http.NewRequest(http.MethodPost, baseURL+basePath+"/transactions", bytes.NewReader(body))
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+participants[from].Token)

		startTime := time.Now()
		resp, err := client.Do(req)
		result := TestResult{ResponseTime: time.Since(startTime)}
		if err != nil {
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			result.Success = resp.StatusCode == http.StatusOK
			resp.Body.Close()
		}
		results <- result
	}
}

func (s *TestStats) record(result TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	if result.Success {
		s.SuccessfulRequests++
	} else {
		s.FailedRequests++
		if result.Error != nil {
			s.ErrorCounts[result.Error.Error()]++
		}
	}
	if result.StatusCode != 0 {
		s.StatusCounts[result.StatusCode]++
	}

	s.ResponseTimes = append(s.ResponseTimes, result.ResponseTime)
	s.TotalResponseTime += result.ResponseTime
	s.MinResponseTime = min(s.MinResponseTime, result.ResponseTime)
	s.MaxResponseTime = max(s.MaxResponseTime, result.ResponseTime)
}

func login(client *http.Client, baseURL, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(baseURL+basePath+"/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, out.Message)
	}
	return out.Token, nil
}

func totalBalance(client *http.Client, baseURL string, participants []participant) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range participants {
		req, err := http.NewRequest(http.MethodGet, baseURL+basePath+"/dashboard?limit=1", nil)
		if err != nil {
			return total, err
		}
		req.Header.Set("Authorization", "Bearer "+p.Token)

		resp, err := client.Do(req)
		if err != nil {
			return total, err
		}
		var out struct {
			Balance decimal.Decimal `json:"balance"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			return total, err
		}
		if resp.StatusCode != http.StatusOK {
			return total, fmt.Errorf("dashboard for %s: HTTP %d", p.Email, resp.StatusCode)
		}
		total = total.Add(out.Balance)
	}
	return total, nil
}

func printResults(stats *TestStats, before, after decimal.Decimal) {
	tps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()

	var avgResponseTime, p50, p90, p99 time.Duration
	if n := len(stats.ResponseTimes); n > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(n)
		sorted := slices.Clone(stats.ResponseTimes)
		slices.Sort(sorted)
		p50 = sorted[n*50/100]
		p90 = sorted[n*90/100]
		p99 = sorted[n*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Committed Transfers: %d\n", stats.SuccessfulRequests)
	fmt.Printf("Rejected/Failed:     %d\n", stats.FailedRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Committed TPS:       %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- STATUS CODES -----------------")
	for code, count := range stats.StatusCounts {
		fmt.Printf("HTTP %d: %d\n", code, count)
	}
	for errMsg, count := range stats.ErrorCounts {
		fmt.Printf("%-40s: %d\n", errMsg, count)
	}

	fmt.Println("\n================= CONSERVATION =================")
	fmt.Printf("Total balance before: %s\n", before.StringFixed(2))
	fmt.Printf("Total balance after:  %s\n", after.StringFixed(2))
	if before.Equal(after) {
		color.Green("money conserved")
	} else {
		color.Red("money NOT conserved: drift %s", after.Sub(before).StringFixed(2))
	}
}
