package geo

// Demonyms returns the common alternate names for a country code, lower
// cased, for keyword matching against free text. The code is matched case
// insensitively; unknown codes return nil.
func Demonyms(code string) []string {
	return demonyms[normalizeKey(code)]
}

func normalizeKey(code string) string {
	b := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}

var demonyms = map[string][]string{
	"gb": {"united kingdom", "uk", "britain", "england", "scotland", "wales"},
	"us": {"united states", "usa", "america"},
	"th": {"thailand"},
	"my": {"malaysia"},
	"sg": {"singapore"},
	"id": {"indonesia"},
	"ph": {"philippines"},
	"vn": {"vietnam"},
	"kh": {"cambodia"},
	"la": {"laos"},
	"mm": {"myanmar", "burma"},
	"bn": {"brunei"},
	"fr": {"france"},
	"de": {"germany"},
	"it": {"italy"},
	"es": {"spain"},
	"nl": {"netherlands", "holland"},
	"be": {"belgium"},
	"ch": {"switzerland"},
	"at": {"austria"},
	"dk": {"denmark"},
	"se": {"sweden"},
	"no": {"norway"},
	"fi": {"finland"},
	"pl": {"poland"},
	"cz": {"czech republic", "czechia"},
	"hu": {"hungary"},
	"sk": {"slovakia"},
	"si": {"slovenia"},
	"hr": {"croatia"},
	"rs": {"serbia"},
	"bg": {"bulgaria"},
	"ro": {"romania"},
	"gr": {"greece"},
	"tr": {"turkey"},
	"ru": {"russia"},
	"ua": {"ukraine"},
	"by": {"belarus"},
	"md": {"moldova"},
	"lt": {"lithuania"},
	"lv": {"latvia"},
	"ee": {"estonia"},
	"ie": {"ireland"},
	"pt": {"portugal"},
	"lu": {"luxembourg"},
	"mt": {"malta"},
	"cy": {"cyprus"},
	"is": {"iceland"},
	"li": {"liechtenstein"},
	"mc": {"monaco"},
	"ad": {"andorra"},
	"sm": {"san marino"},
	"va": {"vatican"},
	"al": {"albania"},
	"me": {"montenegro"},
	"ba": {"bosnia and herzegovina"},
	"jp": {"japan"},
	"kr": {"south korea", "korea"},
	"cn": {"china"},
	"tw": {"taiwan"},
	"hk": {"hong kong"},
	"mo": {"macau"},
	"in": {"india"},
	"pk": {"pakistan"},
	"bd": {"bangladesh"},
	"lk": {"sri lanka"},
	"mv": {"maldives"},
	"np": {"nepal"},
	"bt": {"bhutan"},
	"af": {"afghanistan"},
	"ir": {"iran"},
	"iq": {"iraq"},
	"sy": {"syria"},
	"lb": {"lebanon"},
	"jo": {"jordan"},
	"il": {"israel"},
	"ps": {"palestine"},
	"sa": {"saudi arabia"},
	"ae": {"united arab emirates", "uae"},
	"qa": {"qatar"},
	"kw": {"kuwait"},
	"bh": {"bahrain"},
	"om": {"oman"},
	"ye": {"yemen"},
	"eg": {"egypt"},
	"ly": {"libya"},
	"tn": {"tunisia"},
	"dz": {"algeria"},
	"ma": {"morocco"},
	"sd": {"sudan"},
	"ss": {"south sudan"},
	"et": {"ethiopia"},
	"er": {"eritrea"},
	"dj": {"djibouti"},
	"so": {"somalia"},
	"ke": {"kenya"},
	"ug": {"uganda"},
	"tz": {"tanzania"},
	"rw": {"rwanda"},
	"bi": {"burundi"},
	"mw": {"malawi"},
	"zm": {"zambia"},
	"zw": {"zimbabwe"},
	"bw": {"botswana"},
	"na": {"namibia"},
	"za": {"south africa"},
	"sz": {"swaziland", "eswatini"},
	"ls": {"lesotho"},
	"mg": {"madagascar"},
	"mu": {"mauritius"},
	"sc": {"seychelles"},
	"km": {"comoros"},
	"mz": {"mozambique"},
	"ao": {"angola"},
	"cd": {"congo", "democratic republic of congo"},
	"cg": {"congo", "republic of congo"},
	"cf": {"central african republic"},
	"td": {"chad"},
	"cm": {"cameroon"},
	"gq": {"equatorial guinea"},
	"ga": {"gabon"},
	"st": {"sao tome and principe"},
	"gh": {"ghana"},
	"tg": {"togo"},
	"bj": {"benin"},
	"ne": {"niger"},
	"bf": {"burkina faso"},
	"ml": {"mali"},
	"sn": {"senegal"},
	"gm": {"gambia"},
	"gw": {"guinea-bissau"},
	"gn": {"guinea"},
	"sl": {"sierra leone"},
	"lr": {"liberia"},
	"ci": {"ivory coast", "cote d'ivoire"},
	"ca": {"canada"},
	"mx": {"mexico"},
	"gt": {"guatemala"},
	"bz": {"belize"},
	"sv": {"el salvador"},
	"hn": {"honduras"},
	"ni": {"nicaragua"},
	"cr": {"costa rica"},
	"pa": {"panama"},
	"cu": {"cuba"},
	"jm": {"jamaica"},
	"ht": {"haiti"},
	"do": {"dominican republic"},
	"pr": {"puerto rico"},
	"tt": {"trinidad and tobago"},
	"bb": {"barbados"},
	"ag": {"antigua and barbuda"},
	"dm": {"dominica"},
	"gd": {"grenada"},
	"kn": {"saint kitts and nevis"},
	"lc": {"saint lucia"},
	"vc": {"saint vincent and the grenadines"},
	"bs": {"bahamas"},
	"ar": {"argentina"},
	"bo": {"bolivia"},
	"br": {"brazil"},
	"cl": {"chile"},
	"co": {"colombia"},
	"ec": {"ecuador"},
	"fk": {"falkland islands"},
	"gf": {"french guiana"},
	"gy": {"guyana"},
	"py": {"paraguay"},
	"pe": {"peru"},
	"sr": {"suriname"},
	"uy": {"uruguay"},
	"ve": {"venezuela"},
	"au": {"australia"},
	"nz": {"new zealand"},
	"fj": {"fiji"},
	"pg": {"papua new guinea"},
	"sb": {"solomon islands"},
	"vu": {"vanuatu"},
	"nc": {"new caledonia"},
	"pf": {"french polynesia"},
	"ws": {"samoa"},
	"to": {"tonga"},
	"ki": {"kiribati"},
	"tv": {"tuvalu"},
	"nr": {"nauru"},
	"pw": {"palau"},
	"fm": {"micronesia"},
	"mh": {"marshall islands"},
	"as": {"american samoa"},
	"gu": {"guam"},
	"mp": {"northern mariana islands"},
	"vi": {"us virgin islands"},
	"vg": {"british virgin islands"},
	"ai": {"anguilla"},
	"aw": {"aruba"},
	"bq": {"bonaire"},
	"cw": {"curacao"},
	"sx": {"sint maarten"},
	"bl": {"saint barthelemy"},
	"mf": {"saint martin"},
	"gp": {"guadeloupe"},
	"mq": {"martinique"},
	"re": {"reunion"},
	"yt": {"mayotte"},
	"sh": {"saint helena"},
	"ac": {"ascension island"},
	"ta": {"tristan da cunha"},
	"gs": {"south georgia and the south sandwich islands"},
	"hm": {"heard island and mcdonald islands"},
	"tf": {"french southern territories"},
	"aq": {"antarctica"},
	"bv": {"bouvet island"},
	"sj": {"svalbard and jan mayen"},
	"gl": {"greenland"},
	"fo": {"faroe islands"},
	"ax": {"aland islands"},
	"je": {"jersey"},
	"gg": {"guernsey"},
	"im": {"isle of man"},
	"gi": {"gibraltar"},
}
