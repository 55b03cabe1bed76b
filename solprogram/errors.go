package solprogram

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAccountData = errors.New("invalid account data")
	ErrInvalidProgramID   = errors.New("invalid program id")
)

// ProgramErrors codes from the on-chain program
var ProgramErrors = map[int]string{
	6000: "Unauthorized - Signer is not the config authority or record owner",
	6001: "AlreadyMinted - Identity already minted for this owner",
	6002: "InvalidCid - Invalid CID",
	6003: "NameTooLong - Name exceeds 32 bytes",
	6004: "UriTooLong - URI exceeds 200 bytes",
	6005: "CidTooLong - CID exceeds 128 bytes",
	6006: "TooManyFields - At most 10 fields per access request",
	6007: "InsufficientPayment - Offered payment is below the access fee",
	6008: "InvalidStatus - Access request is not pending",
	6009: "RequestExpired - Access request has expired",
	6010: "AlreadyRevoked - Access grant already revoked",
	6011: "Paused - Program paused",
}

var (
	customCodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`"Custom":\s*(\d+)`),     // "Custom": 6002
		regexp.MustCompile(`"Custom":\s*"(\d+)"`),   // "Custom": "6002"
		regexp.MustCompile(`Custom:\s*(\d+)`),       // Custom: 6002
		regexp.MustCompile(`error code:\s*(\d+)`),   // error code: 6002
		regexp.MustCompile(`Error Number:\s*(\d+)`), // Error Number: 6002 (from Anchor logs)
	}
	hexCodePattern = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

	// JSON encoded logs end at the closing quote or an escaped newline
	logPattern = regexp.MustCompile(`Program log: ([^"\n\\]+)`)
)

// ExtractErrorCode tries multiple methods to extract custom program error code
func ExtractErrorCode(err error) *int {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Method 1: JSON structure
	// Format: "err": {"InstructionError": [0, {"Custom": 6002}]}
	if code := customCodeFromJSON(errStr); code != nil {
		return code
	}

	// Method 2: regex patterns
	for _, pattern := range customCodePatterns {
		if matches := pattern.FindStringSubmatch(errStr); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return &code
			}
		}
	}

	// Method 3: hex format - custom program error: 0x1772
	if matches := hexCodePattern.FindStringSubmatch(errStr); len(matches) > 1 {
		if code, err := strconv.ParseInt(matches[1], 16, 64); err == nil {
			intCode := int(code)
			return &intCode
		}
	}

	return nil
}

func customCodeFromJSON(errStr string) *int {
	jsonStart := strings.Index(errStr, `"err":`)
	if jsonStart == -1 {
		return nil
	}

	// Extract balanced JSON object
	jsonStr := errStr[jsonStart:]
	braceCount := 0
	endPos := -1
	for i, ch := range jsonStr {
		if ch == '{' {
			braceCount++
		} else if ch == '}' {
			braceCount--
			if braceCount == 0 {
				endPos = i + 1
				break
			}
		}
	}
	if endPos < 0 {
		return nil
	}

	var wrapper struct {
		Err struct {
			InstructionError []interface{} `json:"InstructionError"`
		} `json:"err"`
	}
	if err := json.Unmarshal([]byte("{"+jsonStr[:endPos]+"}"), &wrapper); err != nil {
		return nil
	}
	if len(wrapper.Err.InstructionError) < 2 {
		return nil
	}
	customMap, ok := wrapper.Err.InstructionError[1].(map[string]interface{})
	if !ok {
		return nil
	}
	switch v := customMap["Custom"].(type) {
	case float64:
		code := int(v)
		return &code
	case string:
		if code, err := strconv.Atoi(v); err == nil {
			return &code
		}
	}
	return nil
}

// ParseSolanaError extracts and formats error
func ParseSolanaError(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()

	if strings.Contains(errStr, "BlockhashNotFound") ||
		strings.Contains(errStr, "Blockhash not found") {
		return "Transaction expired. The blockhash is no longer valid. Please create a new transaction and try again."
	}

	if code := ExtractErrorCode(err); code != nil {
		if msg, ok := ProgramErrors[*code]; ok {
			return msg
		}
		return fmt.Sprintf("Custom program error code: %d", *code)
	}

	if strings.Contains(errStr, "already in use") {
		return "Account already in use. The config is probably initialized already."
	}

	if strings.Contains(errStr, "simulation failed") {
		return "Transaction simulation failed. Check program logs for details."
	}

	if strings.Contains(errStr, "insufficient funds") ||
		strings.Contains(errStr, "insufficient lamports") {
		return "Insufficient SOL balance to pay for transaction"
	}

	return truncate(errStr, maxErrorLength)
}

const maxErrorLength = 300

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// ExtractLogMessages extracts program logs from error
func ExtractLogMessages(err error) []string {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	logs := []string{}
	seen := map[string]bool{}

	for _, match := range logPattern.FindAllStringSubmatch(errStr, -1) {
		log := strings.TrimSpace(match[1])
		if log != "" && !seen[log] {
			seen[log] = true
			logs = append(logs, log)
		}
	}

	return logs
}
