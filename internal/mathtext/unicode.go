package mathtext

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var symbols = map[string]string{
	// Greek
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε", "varepsilon": "ε",
	"zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ", "iota": "ι", "kappa": "κ",
	"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "pi": "π", "varpi": "ϖ", "rho": "ρ",
	"sigma": "σ", "tau": "τ", "upsilon": "υ", "phi": "φ", "varphi": "φ", "chi": "χ",
	"psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ", "Pi": "Π",
	"Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",

	// operators
	"cdot": "·", "times": "×", "div": "÷", "pm": "±", "mp": "∓", "ast": "∗", "star": "⋆",
	"circ": "∘", "bullet": "•", "oplus": "⊕", "otimes": "⊗", "sum": "∑", "prod": "∏",
	"int": "∫", "oint": "∮", "partial": "∂", "nabla": "∇", "infty": "∞", "sqrt": "√",
	"setminus": "∖", "wedge": "∧", "vee": "∨", "neg": "¬", "lnot": "¬",

	// relations
	"le": "≤", "leq": "≤", "ge": "≥", "geq": "≥", "ne": "≠", "neq": "≠", "approx": "≈",
	"equiv": "≡", "sim": "∼", "simeq": "≃", "cong": "≅", "propto": "∝", "ll": "≪", "gg": "≫",
	"mid": "∣", "nmid": "∤", "divides": "∣", "perp": "⊥", "parallel": "∥",
	"in": "∈", "notin": "∉", "ni": "∋", "subset": "⊂", "subseteq": "⊆", "supset": "⊃",
	"supseteq": "⊇", "cup": "∪", "cap": "∩", "bigcup": "⋃", "bigcap": "⋂",
	"emptyset": "∅", "varnothing": "∅",

	// arrows
	"to": "→", "rightarrow": "→", "leftarrow": "←", "gets": "←", "leftrightarrow": "↔",
	"Rightarrow": "⇒", "implies": "⇒", "Leftarrow": "⇐", "impliedby": "⇐",
	"Leftrightarrow": "⇔", "iff": "⇔", "mapsto": "↦", "uparrow": "↑", "downarrow": "↓",
	"longrightarrow": "⟶", "Longrightarrow": "⟹",

	// logic, misc
	"forall": "∀", "exists": "∃", "nexists": "∄", "therefore": "∴", "because": "∵",
	"angle": "∠", "measuredangle": "∡", "triangle": "△", "square": "□", "degree": "°",
	"ldots": "…", "dots": "…", "cdots": "⋯", "vdots": "⋮", "ddots": "⋱",
	"lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈", "rceil": "⌉", "langle": "⟨", "rangle": "⟩",
	"prime": "′", "ell": "ℓ", "hbar": "ℏ", "aleph": "ℵ", "Re": "ℜ", "Im": "ℑ",
	"vert": "|", "Vert": "‖", "lvert": "|", "rvert": "|", "lVert": "‖", "rVert": "‖",
	"backslash": "\\", "S": "§", "dagger": "†",

	// spacing
	"quad": "  ", "qquad": "    ", ",": " ", ";": " ", ":": " ", " ": " ", "!": "",
	"{": "{", "}": "}", "%": "%", "$": "$", "&": "&", "#": "#", "_": "_", "|": "‖",
}

// Commands printed as their own name.
var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true, "tanh": true,
	"log": true, "ln": true, "lg": true, "exp": true, "det": true, "dim": true, "ker": true,
	"gcd": true, "lcm": true, "max": true, "min": true, "sup": true, "inf": true,
	"lim": true, "limsup": true, "liminf": true, "deg": true, "arg": true, "Pr": true,
}

// Commands that only affect sizing and are dropped.
var dropped = map[string]bool{
	"left": true, "right": true, "big": true, "Big": true, "bigg": true, "Bigg": true,
	"bigl": true, "bigr": true, "Bigl": true, "Bigr": true, "displaystyle": true,
	"textstyle": true, "limits": true, "nolimits": true, "middle": true,
}

var blackboard = map[rune]string{
	'N': "ℕ", 'Z': "ℤ", 'Q': "ℚ", 'R': "ℝ", 'C': "ℂ", 'P': "ℙ", 'F': "𝔽", 'E': "𝔼", 'H': "ℍ",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ', 'f': 'ᶠ', 'g': 'ᵍ', 'h': 'ʰ', 'i': 'ⁱ',
	'j': 'ʲ', 'k': 'ᵏ', 'l': 'ˡ', 'm': 'ᵐ', 'n': 'ⁿ', 'o': 'ᵒ', 'p': 'ᵖ', 'r': 'ʳ', 's': 'ˢ',
	't': 'ᵗ', 'u': 'ᵘ', 'v': 'ᵛ', 'w': 'ʷ', 'x': 'ˣ', 'y': 'ʸ', 'z': 'ᶻ',
	'′': '′', '∗': '*', '*': '*',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'h': 'ₕ', 'i': 'ᵢ', 'j': 'ⱼ', 'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ',
	'o': 'ₒ', 'p': 'ₚ', 'r': 'ᵣ', 's': 'ₛ', 't': 'ₜ', 'u': 'ᵤ', 'v': 'ᵥ', 'x': 'ₓ',
}

// ToUnicode renders a LaTeX math body as plain Unicode text. Constructs
// without a Unicode form degrade to a readable ASCII spelling.
func ToUnicode(latex string) string {
	return convert(latex)
}

func convert(s string) string {
	var b commandWriter
	for i := 0; i < len(s); {
		c := s[i]
		switch c {
		case '\\':
			name, next := readCommand(s, i)
			i = b.writeCommandResult(s, name, next)
			continue
		case '^', '_':
			arg, next := readArg(s, i+1)
			table, marker := superscripts, "^"
			if c == '_' {
				table, marker = subscripts, "_"
			}
			b.WriteString(script(convert(arg), table, marker))
			i = next
			continue
		case '{':
			inner, next := readGroup(s, i)
			b.WriteString(convert(inner))
			i = next
			continue
		case '}':
			i++
			continue
		case '~':
			b.WriteByte(' ')
			i++
			continue
		case '\'':
			b.WriteString("′")
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

// commandWriter is a strings.Builder that knows how to expand commands.
type commandWriter struct {
	strings.Builder
}

// writeCommandResult expands the command name whose arguments start at
// s[i] and returns the index after them.
func (b *commandWriter) writeCommandResult(s, name string, i int) int {
	switch name {
	case "frac", "dfrac", "tfrac", "cfrac":
		num, i1 := readArg(s, i)
		den, i2 := readArg(s, i1)
		b.WriteString(fraction(convert(num), convert(den)))
		return i2

	case "binom", "dbinom", "tbinom":
		n, i1 := readArg(s, i)
		k, i2 := readArg(s, i1)
		b.WriteString("C(" + convert(n) + ", " + convert(k) + ")")
		return i2

	case "sqrt":
		index := ""
		if j := skipSpace(s, i); j < len(s) && s[j] == '[' {
			if end := strings.IndexByte(s[j:], ']'); end > 0 {
				index = convert(s[j+1 : j+end])
				i = j + end + 1
			}
		}
		arg, next := readArg(s, i)
		body := convert(arg)
		if index != "" {
			b.WriteString(script(index, superscripts, ""))
		}
		b.WriteString("√" + wrap(body))
		return next

	case "text", "textrm", "textit", "textbf", "mbox", "hbox":
		arg, next := readArg(s, i)
		b.WriteString(arg)
		return next

	case "mathrm", "mathbf", "mathit", "mathsf", "mathtt", "boldsymbol", "bm", "operatorname", "mathcal", "mathscr":
		arg, next := readArg(s, i)
		b.WriteString(convert(arg))
		return next

	case "mathbb", "mathbbm":
		arg, next := readArg(s, i)
		for _, r := range arg {
			if bb, ok := blackboard[r]; ok {
				b.WriteString(bb)
			} else {
				b.WriteRune(r)
			}
		}
		return next

	case "overline", "bar", "overrightarrow", "vec", "hat", "widehat", "tilde", "widetilde", "dot", "ddot", "underline":
		arg, next := readArg(s, i)
		b.WriteString(accent(convert(arg), name))
		return next

	case "pmod":
		arg, next := readArg(s, i)
		b.WriteString(" (mod " + convert(arg) + ")")
		return next

	case "not":
		j := skipSpace(s, i)
		if j < len(s) && s[j] == '=' {
			b.WriteString("≠")
			return j + 1
		}
		b.WriteString("¬")
		return i
	}

	switch {
	case dropped[name]:
	case name == "bmod" || name == "mod":
		b.WriteString(" mod ")
	case functions[name]:
		b.WriteString(name)
	default:
		if sym, ok := symbols[name]; ok {
			b.WriteString(sym)
		} else {
			b.WriteString(name)
		}
	}
	return i
}

func readCommand(s string, i int) (string, int) {
	j := i + 1
	if j >= len(s) {
		return "", j
	}
	if !isLetter(s[j]) {
		_, size := utf8.DecodeRuneInString(s[j:])
		return s[j : j+size], j + size
	}
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	return s[i+1 : j], j
}

// readArg reads a braced group, a command token or a single character.
func readArg(s string, i int) (string, int) {
	i = skipSpace(s, i)
	if i >= len(s) {
		return "", i
	}
	switch s[i] {
	case '{':
		return readGroup(s, i)
	case '\\':
		_, next := readCommand(s, i)
		return s[i:next], next
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i : i+size], i + size
}

// readGroup returns the body of the braced group opening at s[i]. An
// unbalanced group runs to the end of s.
func readGroup(s string, i int) (string, int) {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[i+1 : j], j + 1
			}
		}
	}
	return s[i+1:], len(s)
}

func skipSpace(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// script maps every rune through table, or falls back to marker notation.
func script(body string, table map[rune]rune, marker string) string {
	if body == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range body {
		m, ok := table[r]
		if !ok {
			switch {
			case marker == "":
				return body
			case utf8.RuneCountInString(body) == 1:
				return marker + body
			}
			return marker + "(" + body + ")"
		}
		b.WriteRune(m)
	}
	return b.String()
}

func fraction(num, den string) string {
	return wrap(num) + "/" + wrap(den)
}

// wrap parenthesizes compound expressions.
func wrap(s string) string {
	if utf8.RuneCountInString(s) <= 1 || isAtom(s) {
		return s
	}
	return "(" + s + ")"
}

func isAtom(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

func accent(s, name string) string {
	var mark rune
	switch name {
	case "overline", "bar":
		mark = '̅'
	case "vec", "overrightarrow":
		mark = '⃗'
	case "hat", "widehat":
		mark = '̂'
	case "tilde", "widetilde":
		mark = '̃'
	case "dot":
		mark = '̇'
	case "ddot":
		mark = '̈'
	case "underline":
		mark = '̲'
	default:
		return s
	}
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		b.WriteRune(mark)
	}
	return b.String()
}
