package evidence

// Citation is one literature reference
type Citation struct {
	Key     string `json:"key"`
	Authors string `json:"authors"`
	Year    int    `json:"year"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Finding string `json:"finding"`
}

var citations = []Citation{
	{"bekoff1995", "Bekoff, M.", 1995, "Play signals as punctuation: the structure of social play in canids", "Behaviour 132", "Play bows signal play intent and frame the actions that follow as play"},
	{"quaranta2007", "Quaranta, A., Siniscalchi, M., Vallortigara, G.", 2007, "Asymmetric tail-wagging responses by dogs to different emotive stimuli", "Current Biology 17", "Tail-wag direction and vigour differ between positive and negative stimuli"},
	{"farago2010", "Faragó, T., Pongrácz, P., Range, F., Virányi, Z., Miklósi, Á.", 2010, "'The bone is mine': affective and referential aspects of dog growls", "Animal Behaviour 79", "Growl acoustics differ by context and carry information about body size and intent"},
	{"pongracz2006", "Pongrácz, P., Molnár, C., Miklósi, Á.", 2006, "Acoustic parameters of dog barks carry emotional information for humans", "Applied Animal Behaviour Science 100", "Bark pitch, tonality and inter-bark interval convey the dog's inner state"},
	{"yin2002", "Yin, S.", 2002, "A new perspective on barking in dogs", "Journal of Comparative Psychology 116", "Barks are context-specific: disturbance barks are harsh and low, isolation and play barks higher and more tonal"},
	{"beerda1998", "Beerda, B., Schilder, M. B. H., van Hooff, J., de Vries, H. W., Mol, J. A.", 1998, "Behavioural, saliva cortisol and heart rate responses to different types of stimuli in dogs", "Applied Animal Behaviour Science 58", "Low posture, restlessness and repetitive behaviour accompany acute stress"},
	{"siniscalchi2013", "Siniscalchi, M., Lusito, R., Vallortigara, G., Quaranta, A.", 2013, "Seeing left- or right-asymmetric tail wagging produces different emotional responses in dogs", "Current Biology 23", "Dogs respond to the tail-wag asymmetry of other dogs"},
	{"horowitz2009", "Horowitz, A.", 2009, "Attention to attention in domestic dog dyadic play", "Animal Cognition 12", "Dogs track each other's attention and adjust play signals to it"},
	{"sommerville2017", "Sommerville, R., O'Connor, E. A., Asher, L.", 2017, "Why do dogs play? Function and welfare implications of play in the domestic dog", "Applied Animal Behaviour Science 197", "Play is linked to positive welfare and good social bonds"},
	{"lord2009", "Lord, K., Feinstein, M., Coppinger, R.", 2009, "Barking and mobbing", "Behavioural Processes 81", "Barking is a mobbing signal given in conflict between approach and withdrawal"},
	{"adams1993", "Adams, G. J., Johnson, K. G.", 1993, "Sleep-wake cycles and other night-time behaviours of the domestic dog", "Applied Animal Behaviour Science 36", "Dogs spend much of the day resting, with short sleep bouts in a lying posture"},
}

// CitationByKey finds a citation by its key
func CitationByKey(key string) (Citation, bool) {
	for _, c := range citations {
		if c.Key == key {
			return c, true
		}
	}
	return Citation{}, false
}

// Citation keys for each verdict, emotion and action. A claim cites every key that applies.
var (
	stateCitations = map[string][]string{
		"sleeping":          {"adams1993"},
		"resting":           {"adams1993"},
		"resting-vocal":     {"adams1993", "pongracz2006"},
		"alert-watching":    {"horowitz2009", "lord2009"},
		"calm-standing":     {"beerda1998"},
		"resting-sitting":   {"beerda1998"},
		"active":            {"sommerville2017"},
		"moderately-active": {"sommerville2017"},
	}
	emotionCitations = map[string][]string{
		"happy":      {"quaranta2007", "sommerville2017"},
		"excited":    {"pongracz2006"},
		"playful":    {"bekoff1995", "sommerville2017"},
		"calm":       {"adams1993"},
		"anxious":    {"beerda1998"},
		"stressed":   {"beerda1998"},
		"fearful":    {"beerda1998", "siniscalchi2013"},
		"aggressive": {"farago2010", "yin2002"},
		"alert":      {"yin2002", "lord2009"},
		"sad":        {"pongracz2006"},
		"curious":    {"horowitz2009"},
	}
	actionCitations = map[string][]string{
		"play-bow":           {"bekoff1995"},
		"bouncing-play":      {"bekoff1995", "sommerville2017"},
		"zoomies":            {"sommerville2017"},
		"tail-wagging":       {"quaranta2007", "siniscalchi2013"},
		"tail-wagging-fast":  {"quaranta2007"},
		"barking":            {"yin2002", "pongracz2006"},
		"barking-repeatedly": {"pongracz2006", "lord2009"},
		"growling":           {"farago2010"},
		"whining":            {"pongracz2006"},
		"pacing":             {"beerda1998"},
		"restless":           {"beerda1998"},
		"cowering":           {"beerda1998"},
		"freezing":           {"beerda1998"},
		"dozing":             {"adams1993"},
		"resting":            {"adams1993"},
		"head-tilt":          {"horowitz2009"},
		"watching":           {"horowitz2009"},
	}
)

func lookup(table map[string][]string, key string) []Citation {
	out := []Citation{}
	for _, k := range table[key] {
		if c, ok := CitationByKey(k); ok {
			out = append(out, c)
		}
	}
	return out
}
