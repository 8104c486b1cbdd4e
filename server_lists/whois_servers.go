package server_lists

// TLDToWhoisServer maps a top-level suffix to the WHOIS server that is
// authoritative for it. Multi-label keys (e.g. "co.za") are only consulted
// when the suffix is also listed in MultiLabelSuffixes.
var TLDToWhoisServer = map[string]string{
	// Generic
	"com":    "whois.verisign-grs.com",
	"net":    "whois.verisign-grs.com",
	"org":    "whois.pir.org",
	"info":   "whois.afilias.net",
	"biz":    "whois.nic.biz",
	"name":   "whois.nic.name",
	"mobi":   "whois.dotmobiregistry.net",
	"pro":    "whois.afilias.net",
	"asia":   "whois.nic.asia",
	"tel":    "whois.nic.tel",
	"travel": "whois.nic.travel",
	"coop":   "whois.nic.coop",
	"aero":   "whois.aero",
	"museum": "whois.nic.museum",
	"jobs":   "whois.nic.jobs",
	"cat":    "whois.nic.cat",
	"edu":    "whois.educause.edu",
	"gov":    "whois.dotgov.gov",
	"int":    "whois.iana.org",
	"arpa":   "whois.iana.org",
	"xxx":    "whois.nic.xxx",
	"app":    "whois.nic.google",
	"dev":    "whois.nic.google",
	"page":   "whois.nic.google",
	"xyz":    "whois.nic.xyz",
	"top":    "whois.nic.top",
	"site":   "whois.nic.site",
	"online": "whois.nic.online",
	"shop":   "whois.nic.shop",
	"club":   "whois.nic.club",
	"buzz":   "whois.nic.buzz",
	"moe":    "whois.nic.moe",

	// Country code
	"ac": "whois.nic.ac",
	"ae": "whois.aeda.net.ae",
	"ag": "whois.nic.ag",
	"ai": "whois.nic.ai",
	"am": "whois.amnic.net",
	"ar": "whois.nic.ar",
	"at": "whois.nic.at",
	"au": "whois.auda.org.au",
	"be": "whois.dns.be",
	"bg": "whois.register.bg",
	"br": "whois.registro.br",
	"by": "whois.cctld.by",
	"ca": "whois.cira.ca",
	"cc": "ccwhois.verisign-grs.com",
	"ch": "whois.nic.ch",
	"cl": "whois.nic.cl",
	"cm": "whois.netcom.cm",
	"cn": "whois.cnnic.cn",
	"co": "whois.nic.co",
	"cz": "whois.nic.cz",
	"de": "whois.denic.de",
	"dk": "whois.punktum.dk",
	"ee": "whois.tld.ee",
	"es": "whois.nic.es",
	"eu": "whois.eu",
	"fi": "whois.fi",
	"fr": "whois.nic.fr",
	"gg": "whois.gg",
	"hk": "whois.hkirc.hk",
	"hu": "whois.nic.hu",
	"ie": "whois.weare.ie",
	"il": "whois.isoc.org.il",
	"in": "whois.registry.in",
	"io": "whois.nic.io",
	"is": "whois.isnic.is",
	"it": "whois.nic.it",
	"je": "whois.je",
	"jp": "whois.jprs.jp",
	"kr": "whois.kr",
	"kz": "whois.nic.kz",
	"li": "whois.nic.li",
	"lt": "whois.domreg.lt",
	"lu": "whois.dns.lu",
	"lv": "whois.nic.lv",
	"me": "whois.nic.me",
	"mx": "whois.mx",
	"my": "whois.mynic.my",
	"nl": "whois.domain-registry.nl",
	"no": "whois.norid.no",
	"nu": "whois.iis.nu",
	"nz": "whois.irs.net.nz",
	"pl": "whois.dns.pl",
	"ps": "whois.pnina.ps",
	"pt": "whois.dns.pt",
	"ro": "whois.rotld.ro",
	"rs": "whois.rnids.rs",
	"ru": "whois.tcinet.ru",
	"se": "whois.iis.se",
	"sg": "whois.sgnic.sg",
	"sh": "whois.nic.sh",
	"si": "whois.register.si",
	"sk": "whois.sk-nic.sk",
	"so": "whois.nic.so",
	"su": "whois.tcinet.ru",
	"tk": "whois.dot.tk",
	"tr": "whois.nic.tr",
	"tv": "tvwhois.verisign-grs.com",
	"tw": "whois.twnic.net.tw",
	"ua": "whois.ua",
	"uk": "whois.nic.uk",
	"us": "whois.nic.us",
	"uy": "whois.nic.org.uy",
	"uz": "whois.cctld.uz",
	"ve": "whois.nic.ve",
	"ws": "whois.website.ws",

	// Multi-label
	"ac.uk":                    "whois.ja.net",
	"gov.uk":                   "whois.ja.net",
	"co.za":                    "whois.registry.net.za",
	"org.za":                   "org-whois.registry.net.za",
	"net.za":                   "net-whois.registry.net.za",
	"web.za":                   "web-whois.registry.net.za",
	"gov.za":                   "whois.gov.za",
	"ac.za":                    "whois.ac.za",
	"alt.za":                   "whois.alt.za",
	"za.net":                   "whois.za.net",
	"za.org":                   "whois.za.org",
	"za.com":                   "whois.centralnic.com",
	"uk.com":                   "whois.centralnic.com",
	"uk.net":                   "whois.centralnic.com",
	"us.com":                   "whois.centralnic.com",
	"eu.com":                   "whois.centralnic.com",
	"de.com":                   "whois.centralnic.com",
	"br.com":                   "whois.centralnic.com",
	"cn.com":                   "whois.centralnic.com",
	"ru.com":                   "whois.centralnic.com",
	"sa.com":                   "whois.centralnic.com",
	"se.com":                   "whois.centralnic.com",
	"se.net":                   "whois.centralnic.com",
	"hu.com":                   "whois.centralnic.com",
	"hu.net":                   "whois.centralnic.com",
	"no.com":                   "whois.centralnic.com",
	"qc.com":                   "whois.centralnic.com",
	"uy.com":                   "whois.centralnic.com",
	"gb.com":                   "whois.centralnic.com",
	"gb.net":                   "whois.centralnic.com",
	"jp.net":                   "whois.centralnic.com",
	"jpn.com":                  "whois.centralnic.com",
	"kr.com":                   "whois.centralnic.com",
	"ar.com":                   "whois.centralnic.com",
	"gr.com":                   "whois.centralnic.com",
	"co.com":                   "whois.centralnic.com",
	"in.net":                   "whois.centralnic.com",
	"ae.org":                   "whois.centralnic.com",
	"us.org":                   "whois.centralnic.com",
	"com.de":                   "whois.centralnic.com",
	"africa.com":               "africa-whois.registry.net.za",
	"eu.org":                   "whois.eu.org",
	"co.ca":                    "whois.co.ca",
	"co.pl":                    "whois.co.pl",
	"com.uy":                   "whois.nic.org.uy",
	"com.se":                   "whois.centralnic.com",
	"edu.cn":                   "whois.edu.cn",
	"in.ua":                    "whois.in.ua",
	"priv.at":                  "whois.nic.priv.at",
	"e164.arpa":                "whois.ripe.net",
	"in-addr.arpa":             "whois.arin.net",
	"mod.uk":                   "whois.nic.uk",
	"bl.uk":                    "whois.nic.uk",
	"jet.uk":                   "whois.nic.uk",
	"nls.uk":                   "whois.nic.uk",
	"nhs.uk":                   "whois.nic.uk",
	"icnet.uk":                 "whois.nic.uk",
	"police.uk":                "whois.nic.uk",
	"parliament.uk":            "whois.nic.uk",
	"british-library.uk":       "whois.nic.uk",
	"port.fr":                  "whois.nic.fr",
	"avocat.fr":                "whois.nic.fr",
	"medecin.fr":               "whois.nic.fr",
	"aeroport.fr":              "whois.nic.fr",
	"notaires.fr":              "whois.nic.fr",
	"chambagri.fr":             "whois.nic.fr",
	"pharmacien.fr":            "whois.nic.fr",
	"veterinaire.fr":           "whois.nic.fr",
	"geometre-expert.fr":       "whois.nic.fr",
	"experts-comptables.fr":    "whois.nic.fr",
	"chirurgiens-dentistes.fr": "whois.nic.fr",
	"inc.hk":                   "whois.hkirc.hk",
	"ltd.hk":                   "whois.hkirc.hk",
	"hk.com":                   "whois.registry.hk.com",
	"hk.org":                   "whois.registry.hk.com",
	"edu.ru":                   "whois.tcinet.ru",
	"za.bz":                    "whois.za.bz",
}
