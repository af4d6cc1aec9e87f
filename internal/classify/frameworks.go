package classify

import "regexp"

// frameworkHint is one (family, regex, framework) tuple from the parallel
// hints table described in spec §4.1. Every regex here is a *positive
// evidence* signature (route declaration, listener construction, handler
// macro) — never a bare import or language-family match — per the
// aggregator's framework-detection guardrail in §4.3.
type frameworkHint struct {
	family  LanguageFamily // empty means "any family"
	re      *regexp.Regexp
	fw      Framework
}

var frameworkHints = []frameworkHint{
	// web-server: route/listener/handler evidence only.
	{Go, regexp.MustCompile(`\bhttp\.ListenAndServe\(|\.HandleFunc\(|gin\.Default\(\)|echo\.New\(\)`), FrameworkWebServer},
	{Python, regexp.MustCompile(`@app\.route\(|Flask\(__name__\)|FastAPI\(\)|\.add_url_rule\(`), FrameworkWebServer},
	{JS, regexp.MustCompile(`\bapp\.(get|post|put|delete)\(\s*['"\x60]|express\(\)|createServer\(`), FrameworkWebServer},
	{TS, regexp.MustCompile(`\bapp\.(get|post|put|delete)\(\s*['"\x60]|express\(\)|createServer\(`), FrameworkWebServer},
	{Ruby, regexp.MustCompile(`\bget\s+['"]/|Sinatra::Base|Rails\.application\.routes`), FrameworkWebServer},
	{Rust, regexp.MustCompile(`actix_web::|#\[get\(|#\[post\(|axum::Router`), FrameworkWebServer},

	// database: connection/driver construction evidence.
	{"", regexp.MustCompile(`sql\.Open\(|database/sql|psycopg2\.connect\(|mysql\.connector\.connect\(|createConnection\(|PQconnectdb\(|sqlx::`), FrameworkDatabase},

	// message-queue.
	{"", regexp.MustCompile(`amqp\.Dial\(|kafka\.NewProducer\(|rabbitmq|nsq\.NewProducer\(|pubsub\.NewClient\(`), FrameworkMessageQueue},

	// cache.
	{"", regexp.MustCompile(`redis\.NewClient\(|memcache\.New\(|redis\.Redis\(`), FrameworkCache},

	// filesystem: more than incidental os.Open — a dedicated fs-walking/watch API.
	{"", regexp.MustCompile(`filepath\.Walk\(|fsnotify\.NewWatcher\(|watchdog\.Observer\(|inotify`), FrameworkFilesystem},

	// networking: raw socket / low-level transport construction.
	{"", regexp.MustCompile(`net\.Listen\(|net\.Dial\(|socket\.socket\(|net\.Socket\(\)|zmq\.NewSocket\(`), FrameworkNetworking},

	// concurrent: explicit concurrency primitives construction (not mere keyword use).
	{Go, regexp.MustCompile(`\bgo func\s*\(|sync\.WaitGroup{}|make\(chan `), FrameworkConcurrent},
	{Rust, regexp.MustCompile(`std::thread::spawn\(|tokio::spawn\(|Arc<Mutex<`), FrameworkConcurrent},
	{Erlang, regexp.MustCompile(`spawn\(|spawn_link\(`), FrameworkConcurrent},
	{Elixir, regexp.MustCompile(`Task\.async\(|GenServer\.start_link\(|spawn\(`), FrameworkConcurrent},

	// cli: argument-parsing library construction evidence.
	{Go, regexp.MustCompile(`cobra\.Command{|flag\.(String|Int|Bool)\(|kingpin\.`), FrameworkCLI},
	{Python, regexp.MustCompile(`argparse\.ArgumentParser\(|click\.command\(`), FrameworkCLI},
	{Rust, regexp.MustCompile(`clap::(Parser|App)|structopt::StructOpt`), FrameworkCLI},
	{JS, regexp.MustCompile(`commander\(\)|yargs\(`), FrameworkCLI},
	{TS, regexp.MustCompile(`commander\(\)|yargs\(`), FrameworkCLI},
}

// matchFrameworks applies every hint whose family is empty or equal to fam,
// returning the set of frameworks with positive evidence in content.
func matchFrameworks(fam LanguageFamily, content []byte) map[Framework]bool {
	hits := map[Framework]bool{}
	for _, h := range frameworkHints {
		if h.family != "" && h.family != fam {
			continue
		}
		if h.re.Match(content) {
			hits[h.fw] = true
		}
	}
	return hits
}

var binaryEntryPointMarkers = map[LanguageFamily]*regexp.Regexp{
	Go:     regexp.MustCompile(`(?m)^func main\(\)`),
	Rust:   regexp.MustCompile(`(?m)^fn main\(\)`),
	C:      regexp.MustCompile(`(?m)^\s*int\s+main\s*\(`),
	Cpp:    regexp.MustCompile(`(?m)^\s*int\s+main\s*\(`),
	Zig:    regexp.MustCompile(`(?m)^pub fn main\(\)`),
	Nim:    regexp.MustCompile(`(?m)^when isMainModule\s*:`),
	D:      regexp.MustCompile(`(?m)^\s*void\s+main\s*\(|^\s*int\s+main\s*\(`),
	Python: regexp.MustCompile(`(?m)^if __name__ == ['"]__main__['"]\s*:`),
}

// hasBinaryEntryPoint reports whether content contains this family's
// recognised program-entry marker.
func hasBinaryEntryPoint(fam LanguageFamily, content []byte) bool {
	re, ok := binaryEntryPointMarkers[fam]
	if !ok {
		return false
	}
	return re.Match(content)
}

var cliArgParsingMarker = regexp.MustCompile(
	`cobra\.Command{|flag\.(String|Int|Bool)\(|argparse\.ArgumentParser\(|click\.command\(|clap::(Parser|App)|structopt::StructOpt|commander\(\)|yargs\(`)

// hasRecognisedArgParsing reports whether content shows a recognised
// argument-parsing construction. Neither it nor hasBinaryEntryPoint feeds
// Classify or the aggregator: no library/cli framework is derived from a
// project's lack of positive framework evidence.
func hasRecognisedArgParsing(content []byte) bool {
	return cliArgParsingMarker.Match(content)
}
