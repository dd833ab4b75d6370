package pipeline

// Stage prompt templates, keyed by stage name. The pipeline treats these as
// opaque strings; only the paired schema constrains what comes back.
var prompts = map[string]string{
	"classify": `Classify the document described by the input. Return a JSON object
with document_type, domain, horizon and analytical_level fields describing
the document's genre, subject domain, time horizon and analytical stance.`,

	"coverage": `Judge how well the input text covers each listed foresight module.
Return {"coverage":[{"module","status","missing_information"}]} where status
is one of active, partial, inactive and missing_information lists what is
absent. Be conservative: thin or indirect treatment is partial at best.`,

	"clarify": `Given the per-module coverage verdicts, formulate one concrete
clarification question for each module that is not fully covered. Return
{"questions":[{"id","module","question"}]}. Questions must be answerable by
the document's author from data they plausibly hold.`,

	"evidence": `Extract evidence items from the input chunks. Return
{"items":[{"id","kind","chunk_id","snippet","content"}]} where kind is one of
claim, actor, event, metric and content is copied verbatim from the chunk
identified by chunk_id. Never invent chunk ids or paraphrase content.`,

	"trends": `Derive the dominant trends supported by the evidence. Return
{"trends":[{"id","label","category","direction","strength","evidence_ids"}]}
with category one of mega, trend, micro. Ground every trend in evidence ids
from the input and omit trends without support.`,

	"weak_signals": `Identify weak signals: early, marginal indicators of change.
Return {"weak_signals":[{"id","signal","rationale","evolution","evidence_ids"}]}.
Each signal needs a rationale and a plausible evolution path.`,

	"uncertainties": `Identify critical uncertainties: drivers whose resolution
decides between futures. Return
{"critical_uncertainties":[{"id","driver","impact","uncertainty_reason","evidence_ids"}]}.`,

	"critic": `Review the derived trends, weak signals and uncertainties. Return
{"contradictions":[],"unsupported":[],"labels":[{"item_ref","label","confidence","note"}]}
where label is one of fact, inference, assumption. Flag items whose evidence
does not carry their claim.`,

	"scenarios": `Synthesize contrasting scenarios from the critical uncertainties.
Return {"scenarios":[{"id","title","summary","implications","indicators"}]}.
Each scenario must resolve the input uncertainties differently.`,
}
