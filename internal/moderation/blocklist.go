package moderation

// defaultBlocklist is kept literal: leetspeak and punctuation variants are
// listed explicitly instead of being derived by homoglyph folding. Variants
// whose normalized form collides with ordinary words ("$hit" becomes "hit")
// are left out.
var defaultBlocklist = []string{
	// English profanity
	"fuck", "fucking", "fucker", "motherfucker", "fck", "fuk", "fuq",
	"f*ck", "f**k", "f_ck", "fu*k", "phuck", "fvck", "f0ck",
	"shit", "shitty", "bullshit", "sh1t", "sh*t", "5hit", "shyt",
	"bitch", "bitches", "b1tch", "b!tch", "bi+ch", "biatch", "b*tch",
	"asshole", "@sshole", "assh0le", "arsehole",
	"bastard", "b@stard", "basterd",
	"dick", "d1ck", "d!ck", "dickhead",
	"cunt", "c*nt", "cvnt", "kunt",
	"pussy", "pu$$y", "pussi",
	"cock", "c0ck", "cocksucker",
	"whore", "wh0re", "h0e",
	"slut", "sl*t", "slvt",
	"wanker", "w@nker", "twat", "tw@t",
	"douche", "douchebag", "jackass", "dumbass", "dumb@ss",
	"piss", "pissed", "p!ss",
	"damn", "d@mn", "goddamn",
	"prick", "bollocks", "bugger",

	// Slurs
	"nigger", "nigga", "n1gger", "n1gga", "nigg3r",
	"faggot", "fag", "f@ggot", "fagg0t",
	"retard", "retarded", "r3tard",
	"chink", "kike", "tranny",

	// Sexual content
	"porn", "p0rn", "pr0n", "porno", "xxx",
	"blowjob", "handjob", "dildo",
	"cum", "jizz",

	// Harassment
	"kill yourself", "kys", "go die", "die in a fire",
}
