/*
Staticlint — multichecker для проверки кода сервиса.

Состав:
  - анализаторы golang.org/x/tools/go/analysis/passes;
  - все анализаторы класса SA из staticcheck.io;
  - отдельные проверки классов S, ST и QF;
  - ineffassign;
  - noosexit: запрет os.Exit в функции main пакета main.

Запуск:

	go run ./cmd/staticlint ./...

Флаги стандартные для multichecker (-json, -fix, -test и флаги отдельных анализаторов).
*/
package main

import (
	"strings"

	"github.com/GevorkovG/go-shortener-web/cmd/staticlint/myanalyzer"
	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/appends"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

// extraChecks — проверки staticcheck вне класса SA, которые включены явно.
var extraChecks = map[string]bool{
	"S1002":  true, // сравнение bool с константой
	"S1008":  true, // упрощение return bool
	"ST1005": true, // формат текста ошибок
	"ST1016": true, // единое имя получателя
	"QF1003": true, // if/else на switch
}

func passesAnalyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		appends.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		composite.Analyzer,
		copylock.Analyzer,
		defers.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		ifaceassert.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		nilfunc.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		shift.Analyzer,
		sigchanyzer.Analyzer,
		stdmethods.Analyzer,
		stringintconv.Analyzer,
		structtag.Analyzer,
		testinggoroutine.Analyzer,
		tests.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,
		unusedresult.Analyzer,
	}
}

// selectStaticcheck отбирает все SA-проверки и перечисленные в extra.
func selectStaticcheck(extra map[string]bool, sets ...[]*lint.Analyzer) []*analysis.Analyzer {
	var out []*analysis.Analyzer
	for _, set := range sets {
		for _, a := range set {
			name := a.Analyzer.Name
			if strings.HasPrefix(name, "SA") || extra[name] {
				out = append(out, a.Analyzer)
			}
		}
	}
	return out
}

func allAnalyzers() []*analysis.Analyzer {
	analyzers := passesAnalyzers()
	analyzers = append(analyzers, selectStaticcheck(extraChecks,
		staticcheck.Analyzers,
		simple.Analyzers,
		stylecheck.Analyzers,
		quickfix.Analyzers,
	)...)
	return append(analyzers,
		ineffassign.Analyzer,
		myanalyzer.NoOsExitAnalyzer,
	)
}

func main() {
	multichecker.Main(allAnalyzers()...)
}
