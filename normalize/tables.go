package normalize

import "regexp"

// rule is one entry of an ordered substitution table: a regular
// expression pattern, its replacement, and whether matching ignores case.
// Tables are applied top to bottom in a single pass each, so entry order
// is significant.
type rule struct {
	pattern string
	repl    string
	fold    bool
}

type compiledRule struct {
	re   *regexp.Regexp
	repl string
}

func compileRules(rules []rule) []compiledRule {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		pattern := r.pattern
		if r.fold {
			pattern = "(?i)" + pattern
		}
		compiled[i] = compiledRule{re: regexp.MustCompile(pattern), repl: r.repl}
	}
	return compiled
}

func applyRules(text string, rules []compiledRule) string {
	for _, r := range rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}

// mojibakeRules repairs stray encoding artifacts left by a Windows-1252
// to UTF-8 round trip (U+0089 followed by misdecoded continuation
// bytes). The table is fixed; entries were collected from the corpus.
var mojibakeRules = compileRules([]rule{
	{`\x{89}Û_`, "", false},
	{`\x{89}ÛÒ`, "", false},
	{`\x{89}ÛÓ`, "", false},
	{`\x{89}ÛÏWhen`, "When", false},
	{`\x{89}ÛÏ`, "", false},
	{`China\x{89}Ûªs`, "China's", false},
	{`let\x{89}Ûªs`, "let's", false},
	{`\x{89}Û÷`, "", false},
	{`\x{89}Ûª`, "", false},
	{`\x{89}Û\x{9d}`, "", false},
	{`å_`, "", false},
	{`\x{89}Û¢åÊ`, "", false},
	{`\x{89}Û¢`, "", false},
	{`fromåÊwounds`, "from wounds", false},
	{`åÊ`, "", false},
	{`åÈ`, "", false},
	{`JapÌ_n`, "Japan", false},
	{`Ì©`, "e", false},
	{`å¨`, "", false},
	{`SuruÌ¤`, "Suruc", false},
	{`åÇ`, "", false},
	{`å£3million`, "3 million", false},
	{`åÀ`, "", false},
})

// contractionRules expands domain-specific contractions ahead of the
// general table below. Third-person 's forms are expanded explicitly
// because the general table cannot tell "he's" (he is) from a
// possessive.
var contractionRules = compileRules([]rule{
	{`He's`, "He is", false},
	{`She's`, "She is", false},
	{`It's`, "It is", false},
	{`he's`, "he is", false},
	{`she's`, "she is", false},
	{`it's`, "it is", false},
	{`He ain't`, "He is not", false},
	{`he ain't`, "he is not", false},
	{`She ain't`, "She is not", false},
	{`she ain't`, "she is not", false},
	{`It ain't`, "It is not", false},
	{`it ain't`, "it is not", false},
})

// generalContractionRules is the general-purpose expander, applied after
// the domain table. Capitalized sentence-initial forms come first so the
// folded rules below never see them.
var generalContractionRules = compileRules([]rule{
	{`\bDon't\b`, "Do not", false},
	{`\bCan't\b`, "Cannot", false},
	{`\bWon't\b`, "Will not", false},
	{`\bIsn't\b`, "Is not", false},
	{`\bAren't\b`, "Are not", false},
	{`\bWhat's\b`, "What is", false},
	{`\bThat's\b`, "That is", false},
	{`\bThis's\b`, "This is", false},
	{`\bHere's\b`, "Here is", false},
	{`\bThere's\b`, "There is", false},
	{`\bI'm\b`, "I am", false},
	{`\bI've\b`, "I have", false},
	{`\bI'd\b`, "I would", false},
	{`\bI'll\b`, "I will", false},
	{`\bdon't\b`, "do not", true},
	{`\bcan't\b`, "cannot", true},
	{`\bwon't\b`, "will not", true},
	{`\bshan't\b`, "shall not", true},
	{`\bisn't\b`, "is not", true},
	{`\baren't\b`, "are not", true},
	{`\bwasn't\b`, "was not", true},
	{`\bweren't\b`, "were not", true},
	{`\bhasn't\b`, "has not", true},
	{`\bhaven't\b`, "have not", true},
	{`\bhadn't\b`, "had not", true},
	{`\bdoesn't\b`, "does not", true},
	{`\bdidn't\b`, "did not", true},
	{`\bcouldn't\b`, "could not", true},
	{`\bshouldn't\b`, "should not", true},
	{`\bwouldn't\b`, "would not", true},
	{`\bmustn't\b`, "must not", true},
	{`\bneedn't\b`, "need not", true},
	{`\bain't\b`, "am not", true},
	{`\blet's\b`, "let us", true},
	{`\bthat's\b`, "that is", true},
	{`\bthis's\b`, "this is", true},
	{`\bwhat's\b`, "what is", true},
	{`\bwho's\b`, "who is", true},
	{`\bwhere's\b`, "where is", true},
	{`\bwhen's\b`, "when is", true},
	{`\bwhy's\b`, "why is", true},
	{`\bhow's\b`, "how is", true},
	{`\bhere's\b`, "here is", true},
	{`\bthere's\b`, "there is", true},
	{`\byou're\b`, "you are", true},
	{`\bwe're\b`, "we are", true},
	{`\bthey're\b`, "they are", true},
	{`\byou've\b`, "you have", true},
	{`\bwe've\b`, "we have", true},
	{`\bthey've\b`, "they have", true},
	{`\byou'll\b`, "you will", true},
	{`\bwe'll\b`, "we will", true},
	{`\bthey'll\b`, "they will", true},
	{`\bhe'll\b`, "he will", true},
	{`\bshe'll\b`, "she will", true},
	{`\bit'll\b`, "it will", true},
	{`\byou'd\b`, "you would", true},
	{`\bwe'd\b`, "we would", true},
	{`\bthey'd\b`, "they would", true},
	{`\bhe'd\b`, "he would", true},
	{`\bshe'd\b`, "she would", true},
	{`\bcan not\b`, "cannot", true},
	{`\bgonna\b`, "going to", true},
	{`\bwanna\b`, "want to", true},
	{`\bgotta\b`, "got to", true},
})

// abbreviationRules expands domain abbreviations and common social-media
// shorthand. Mostly case-sensitive pairs; lmao/lol fold.
var abbreviationRules = compileRules([]rule{
	{`R\.I\.P`, "Rest In Peace", false},
	{`R\.i\.p`, "Rest in peace", false},
	{`r\.i\.p`, "rest in peace", false},
	{`U\.S`, "United States", false},
	{`u\.s`, "united states", false},
	{`w/e`, "whatever", false},
	{`w/`, "with", false},
	{`USAgov`, "USA government", false},
	{`usagov`, "usa government", false},
	{`recentlu`, "recently", false},
	{`Ph0tos`, "Photos", false},
	{`ph0tos`, "photos", false},
	{`amirite`, "am I right", false},
	{`exp0sed`, "exposed", false},
	{`<3`, "love", false},
	{`amageddon`, "armageddon", false},
	{`Trfc`, "Traffic", false},
	{`trfc`, "traffic", false},
	{`([0-9]+)yr`, "${1} years", false},
	{`lmao`, "laughing my ass off", true},
	{`lol`, "laughing out loud", true},
	{`TRAUMATISED`, "traumatized", false},
	{`traumatised`, "traumatized", false},
	{`\bppl\b`, "people", false},
	{`\bPpl\b`, "People", false},
	{`sh\*t`, "shit", false},
	{`cv19`, "COVID 19", false},
	{`cvid19`, "COVID 19", false},
})

// covidSpreadRules canonicalizes the many spellings of "covid-19" to the
// spaced form "COVID 19". Runs right after placeholder collapsing, while
// the text is still token-joined.
var covidSpreadRules = compileRules([]rule{
	{`covid.19`, "COVID 19 ", true},
	{`covid...19`, "COVID 19 ", true},
	{`covid19`, " COVID 19 ", true},
	{`# COVID19`, "#COVID 19", true},
})

// covidJoinRule re-applies the canonicalization after whitespace has been
// rewritten by later stages, folding "COVID 19" into the single canonical
// token the pretrained vocabulary expects.
var covidJoinRule = compileRules([]rule{
	{`covid.19`, "COVID19", true},
})

// clockRules restores "a.m."/"p.m." spacing that tokenization pulled
// apart, and possessiveRule re-attaches 's as its own token.
var clockRules = compileRules([]rule{
	{` p \. m \.`, "  p.m.", true},
	{` p \. m `, " p.m ", true},
	{` a \. m \.`, "  a.m.", true},
	{` a \. m `, " a.m ", true},
})

var possessiveRule = compileRules([]rule{
	{`'s`, " 's ", false},
})

// numberRules rejoins numeric groupings (thousands separators, dates,
// ranges) that tokenization split apart.
var numberRules = compileRules([]rule{
	{`,([0-9]{2,4}) , ([0-9]{2,4})`, ",${1},${2}", false},
	{`([0-9]{1,3}) / ([0-9]{2,4})`, "${1}/${2}", false},
	{`([0-9]{1,3})- ([0-9]{2,4})`, "${1}-${2}", false},
})
